// Package diagnostics defines the checker's coded errors. An error is a
// position, a code, and a human-readable message; messages carry the
// pretty-printed type context they need, so callers never have to reach
// back into the type system to render one.
package diagnostics

import (
	"fmt"

	"github.com/lumelang/lume/internal/token"
)

// DiagnosticError is a single coded diagnostic anchored to a source
// position. Inner preserves the causal chain for unification failures.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	Inner   error
}

// NewError creates a diagnostic at the given token.
func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, File: tok.File, Message: message}
}

// Wrap attaches an inner cause.
func (e *DiagnosticError) Wrap(inner error) *DiagnosticError {
	e.Inner = inner
	return e
}

func (e *DiagnosticError) Error() string {
	pos := e.Token.Pos()
	if e.File != "" && e.Token.File == "" {
		pos = fmt.Sprintf("%s:%d:%d", e.File, e.Token.Line, e.Token.Column)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, pos, e.Message)
}

func (e *DiagnosticError) Unwrap() error { return e.Inner }
