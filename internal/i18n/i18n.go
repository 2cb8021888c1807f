// Package i18n holds the storefront's two display languages and the
// bilingual message catalog used by the cart and checkout.
package i18n

import (
	"sync/atomic"

	"github.com/go-faster/errors"
)

// Lang is a display language code.
type Lang string

const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

// ErrUnsupportedLang is returned when parsing an unknown language code.
var ErrUnsupportedLang = errors.New("unsupported language")

// ParseLang validates a language code.
func ParseLang(s string) (Lang, error) {
	switch Lang(s) {
	case English, Arabic:
		return Lang(s), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedLang, "%q", s)
	}
}

// Text is a string available in both languages.
type Text struct {
	EN string
	AR string
}

// In returns the text for lang, falling back to English.
func (t Text) In(lang Lang) string {
	if lang == Arabic && t.AR != "" {
		return t.AR
	}
	return t.EN
}

// Source reports the active language.
type Source interface {
	Current() Lang
}

// Manager owns the active language. The zero value is not usable; use NewManager.
type Manager struct {
	lang atomic.Value // Lang
}

var _ Source = (*Manager)(nil)

// NewManager creates a Manager starting in lang.
func NewManager(lang Lang) *Manager {
	m := &Manager{}
	m.lang.Store(lang)
	return m
}

// Current returns the active language.
func (m *Manager) Current() Lang {
	return m.lang.Load().(Lang)
}

// Set switches the active language.
func (m *Manager) Set(lang Lang) {
	m.lang.Store(lang)
}

// Fixed is a Source that always reports the same language.
type Fixed Lang

// Current implements Source.
func (f Fixed) Current() Lang { return Lang(f) }
