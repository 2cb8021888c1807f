package storefront

import (
	"fmt"
	"io"
	"sync"
)

// UI receives everything the controller wants to show.
type UI interface {
	// Show prints regular output such as listings and the cart.
	Show(lines ...string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// TextUI writes plain lines to an io.Writer.
type TextUI struct {
	mu sync.Mutex
	w  io.Writer
}

var _ UI = (*TextUI)(nil)

// NewTextUI creates a TextUI writing to w.
func NewTextUI(w io.Writer) *TextUI {
	return &TextUI{w: w}
}

func (t *TextUI) Show(lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, l := range lines {
		_, _ = fmt.Fprintln(t.w, l)
	}
}

func (t *TextUI) Info(msg string)  { t.Show("✓ " + msg) }
func (t *TextUI) Warn(msg string)  { t.Show("! " + msg) }
func (t *TextUI) Error(msg string) { t.Show("✗ " + msg) }

// Prompt prints the input prompt without a trailing newline.
func (t *TextUI) Prompt(p string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, p)
}
