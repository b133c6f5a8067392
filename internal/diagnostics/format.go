package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// Format renders a diagnostic for terminal output. Color is applied only
// when w is an interactive terminal.
func Format(w io.Writer, err *DiagnosticError) string {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return format(err, color)
}

func format(err *DiagnosticError, color bool) string {
	var b strings.Builder
	if color {
		b.WriteString(ansiBold + ansiRed)
	}
	b.WriteString(fmt.Sprintf("error[%s]", err.Code))
	if color {
		b.WriteString(ansiReset)
	}
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n  ")
	if color {
		b.WriteString(ansiDim)
	}
	b.WriteString("at " + err.Token.Pos())
	if color {
		b.WriteString(ansiReset)
	}
	for inner := err.Inner; inner != nil; {
		b.WriteString("\n  caused by: ")
		b.WriteString(inner.Error())
		u, ok := inner.(interface{ Unwrap() error })
		if !ok {
			break
		}
		inner = u.Unwrap()
	}
	return b.String()
}

// Print writes the formatted diagnostic followed by a newline.
func Print(w io.Writer, err *DiagnosticError) {
	fmt.Fprintln(w, Format(w, err))
}
