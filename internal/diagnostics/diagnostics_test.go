package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lumelang/lume/internal/token"
)

func TestErrorRendersCodeAndPosition(t *testing.T) {
	tok := token.Token{Lexeme: "x", Line: 3, Column: 7, File: "main.lm"}
	err := NewError(ErrT004, tok, "unbound value x")
	got := err.Error()
	for _, want := range []string{"[T004]", "main.lm:3:7", "unbound value x"} {
		if !strings.Contains(got, want) {
			t.Fatalf("error %q must contain %q", got, want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	tok := token.Token{Line: 1, Column: 1}
	inner := NewError(ErrT002, tok, "cannot unify int with string")
	outer := NewError(ErrT001, tok, "mismatch").Wrap(inner)
	if outer.Unwrap() != inner {
		t.Fatal("Unwrap must return the wrapped cause")
	}
}

func TestFormatWithoutTerminalHasNoEscapes(t *testing.T) {
	tok := token.Token{Line: 2, Column: 4, File: "a.lm"}
	err := NewError(ErrT010, tok, "record literal is missing fields [y]").
		Wrap(NewError(ErrT002, tok, "inner cause"))

	var buf bytes.Buffer
	got := Format(&buf, err)
	if strings.Contains(got, "\x1b[") {
		t.Fatal("non-terminal output must not contain ANSI escapes")
	}
	for _, want := range []string{"error[T010]", "at a.lm:2:4", "caused by:"} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatted output %q must contain %q", got, want)
		}
	}
}
