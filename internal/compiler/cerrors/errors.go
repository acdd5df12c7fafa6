// Package cerrors defines the positioned error values produced by every
// stage of the compiler: lexing, parsing, and lowering.
package cerrors

import (
	"fmt"

	"github.com/cadenzalang/cadenza/internal/compiler/token"
)

// CompileError is a single positioned compiler diagnostic. The core never
// aggregates more than one of these across its public surface (§7): the
// first error encountered aborts the pipeline and is returned as-is.
type CompileError struct {
	Pos     token.Position
	Message string
	Phase   string // "lexer", "parser", "lowering"
}

func New(phase string, pos token.Position, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Phase: phase, Message: fmt.Sprintf(format, args...)}
}

// Error renders the driver-facing message shape required by §7:
// "error: <message> at line N, column M". The phase and any filename are
// left to the driver, which owns the surrounding context.
func (e *CompileError) Error() string {
	return fmt.Sprintf("error: %s at line %d, column %d", e.Message, e.Pos.Line, e.Pos.Column)
}

// ErrorList collects diagnostics for callers that want every error from a
// phase rather than only the first (e.g. a test harness asserting on
// several malformed inputs at once). The compiler's own public surface
// never returns one of these; it always stops at the first CompileError.
type ErrorList struct {
	Errors []*CompileError
}

func (el *ErrorList) Add(phase string, pos token.Position, format string, args ...any) {
	el.Errors = append(el.Errors, New(phase, pos, format, args...))
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) String() string {
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}
