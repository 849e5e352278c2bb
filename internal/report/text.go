// Package report renders diff results for people and for other tools.
package report

import (
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/diff"
	"github.com/muesli/termenv"
)

// TextOptions controls WriteText.
type TextOptions struct {
	// From and To name the predicted and ground truth scores in the
	// header. The header is omitted when both are empty.
	From string
	To   string
	// Color enables ANSI colours when w is a terminal that supports them.
	Color bool
}

// block collects the operations reported at one anchor.
type block struct {
	pos annotation.Anchor
	ops []diff.Op
}

// groupByAnchor keeps anchors in the order they are first seen.
func groupByAnchor(ops []diff.Op) []*block {
	var blocks []*block
	index := make(map[annotation.Anchor]*block)
	for _, op := range ops {
		b, ok := index[op.Pos]
		if !ok {
			b = &block{pos: op.Pos}
			index[op.Pos] = b
			blocks = append(blocks, b)
		}
		b.ops = append(b.ops, op)
	}
	return blocks
}

func header(pos annotation.Anchor) string {
	if pos.IsZero() {
		return "@@ score @@"
	}
	if pos.Measure == 0 {
		return fmt.Sprintf("@@ staff %d @@", pos.Staff)
	}
	return "@@ " + pos.String() + " @@"
}

// Line renders one side of an operation, e.g. "(Note:tie) C4 (eighth note), tied".
func Line(op diff.Op, e annotation.Entity) string {
	return fmt.Sprintf("(%s) %s", op.Label(), e.Describe())
}

// WriteText writes the operations as a unified-diff style report.
func WriteText(w io.Writer, ops []diff.Op, opts TextOptions) error {
	profile := termenv.Ascii
	if opts.Color {
		profile = termenv.NewOutput(w).EnvColorProfile()
	}
	red, green, cyan := profile.Color("1"), profile.Color("2"), profile.Color("6")

	if opts.From != "" || opts.To != "" {
		if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", opts.From, opts.To); err != nil {
			return err
		}
	}

	for _, b := range groupByAnchor(ops) {
		if _, err := fmt.Fprintln(w, termenv.String(header(b.pos)).Foreground(cyan)); err != nil {
			return err
		}
		for _, op := range b.ops {
			if op.A != nil {
				if _, err := fmt.Fprintln(w, termenv.String("-"+Line(op, op.A)).Foreground(red)); err != nil {
					return err
				}
			}
			if op.B != nil {
				if _, err := fmt.Fprintln(w, termenv.String("+"+Line(op, op.B)).Foreground(green)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
