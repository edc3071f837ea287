package ui

import (
	"fmt"
	"io"
)

// Printer prints notifications to a pair of writers. It satisfies the
// app package's Notifier.
type Printer struct {
	Out, Err io.Writer
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.Out, Current().Success.Render(Current().SymOK+" "+msg))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.Err, Current().Error.Render(Current().SymFail+" "+msg))
}

// Hint is a muted follow-up line on Err.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.Err, Current().Muted.Render(msg))
}
