package simulator

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/okian/plains/internal/domain/league"
)

// RunScript parses the script in r, executes it against a fresh League and
// writes one outcome line per command to w.
func RunScript(ctx context.Context, r io.Reader, w io.Writer, opts ...league.Option) error {
	cmds, err := ParseScript(r)
	if err != nil {
		return err
	}
	l := league.New(opts...)
	bw := bufio.NewWriter(w)
	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("script interrupted at line %d: %w", c.Line, err)
		}
		if _, err := fmt.Fprintln(bw, Format(c, Apply(l, c))); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
