// Package cadenza is the public surface of the core: Parse and Compile, the
// two operations §6 calls out as the Driver↔Core consumer contract. Neither
// touches the filesystem — reading a .cdz file and writing its C# output is
// the driver's job (cmd/cadenzac), not the core's.
package cadenza

import (
	"fmt"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/emit"
	"github.com/cadenzalang/cadenza/internal/compiler/lower"
	"github.com/cadenzalang/cadenza/internal/compiler/parser"
)

// Parse lexes and parses source into an AST. The first lexical or
// syntactic error aborts the parse (§4.2) and is returned as-is.
func Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// Compile runs the full pipeline — lex, parse, lower, emit — and returns
// the generated C# source text.
func Compile(source string) (string, error) {
	prog, err := Parse(source)
	if err != nil {
		return "", err
	}

	unit, err := lower.Lower(prog)
	if err != nil {
		return "", fmt.Errorf("lowering: %w", err)
	}

	return emit.Unit(unit), nil
}
