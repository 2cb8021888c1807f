package storefront

import (
	"bufio"
	"context"
	"io"

	"github.com/go-faster/errors"
)

// Prompter is implemented by UIs that show an input prompt.
type Prompter interface {
	Prompt(p string)
}

// Run reads commands from r until EOF, Quit or ctx cancellation.
func Run(ctx context.Context, r io.Reader, c *Controller) error {
	prompter, _ := c.ui.(Prompter)
	sc := bufio.NewScanner(r)
	for {
		if prompter != nil {
			prompter.Prompt("> ")
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return errors.Wrap(err, "read input")
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, err := Parse(sc.Text())
		if err != nil {
			c.report(err)
			continue
		}
		if cmd == nil {
			continue
		}
		if err := c.Dispatch(ctx, cmd); errors.Is(err, ErrQuit) {
			return nil
		}
	}
}
