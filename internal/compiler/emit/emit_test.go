package emit

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/lower"
)

func mustLower(t *testing.T, prog *ast.Program) string {
	t.Helper()
	unit, err := lower.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return Unit(unit)
}

func tInt() *ast.Type    { return &ast.Type{Name: "int"} }
func tString() *ast.Type { return &ast.Type{Name: "string"} }

func TestEmitPureArithmetic(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name: "add",
			Pure: true,
			Params: []ast.Param{
				{Name: "a", Type: tInt()},
				{Name: "b", Type: tInt()},
			},
			ReturnType: tInt(),
			Body: []ast.Stmt{
				&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: "+", Left: &ast.Ident{Name: "a"}, Right: &ast.Ident{Name: "b"}}},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}

func TestEmitErrorPropagationChain(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name:       "chain",
			Params:     []ast.Param{{Name: "x", Type: tInt()}},
			ReturnType: &ast.Type{Name: "Result", Args: []*ast.Type{tInt(), tString()}},
			Body: []ast.Stmt{
				&ast.LetStmt{
					Name: "y",
					Value: &ast.PropagateExpr{Value: &ast.CallExpr{
						Name: "step",
						Args: []ast.Expr{&ast.Ident{Name: "x"}},
					}},
				},
				&ast.ReturnStmt{Value: &ast.OkExpr{Value: &ast.Ident{Name: "y"}}},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}

func TestEmitGuard(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name:       "check",
			Params:     []ast.Param{{Name: "x", Type: tInt()}},
			ReturnType: &ast.Type{Name: "Result", Args: []*ast.Type{tInt(), tString()}},
			Body: []ast.Stmt{
				&ast.GuardStmt{
					Cond: &ast.BinaryExpr{Op: ">", Left: &ast.Ident{Name: "x"}, Right: &ast.IntLit{Value: 0}},
					Else: []ast.Stmt{
						&ast.ReturnStmt{Value: &ast.ErrorExpr{Value: &ast.StringLit{Value: "neg"}}},
					},
				},
				&ast.ReturnStmt{Value: &ast.OkExpr{Value: &ast.Ident{Name: "x"}}},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}

func TestEmitMatchOnResult(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name:       "unwrap",
			Params:     []ast.Param{{Name: "r", Type: &ast.Type{Name: "Result", Args: []*ast.Type{tInt(), tString()}}}},
			ReturnType: tInt(),
			Body: []ast.Stmt{
				&ast.ReturnStmt{Value: &ast.MatchExpr{
					Scrutinee: &ast.Ident{Name: "r"},
					Cases: []ast.MatchCase{
						{Tag: "Ok", Bind: "v", Body: []ast.Stmt{&ast.ExprStmt{Value: &ast.Ident{Name: "v"}}}},
						{Tag: "Error", Bind: "e", Body: []ast.Stmt{&ast.ExprStmt{
							Value: &ast.UnaryExpr{Op: "-", Operand: &ast.IntLit{Value: 1}},
						}}},
					},
				}},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}

func TestEmitInterpolationTwoHoles(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name:       "greet",
			Params:     []ast.Param{{Name: "first", Type: tString()}, {Name: "last", Type: tString()}},
			ReturnType: tString(),
			Body: []ast.Stmt{
				&ast.ReturnStmt{Value: &ast.InterpolationExpr{Parts: []ast.InterpPart{
					{Text: "Hello, "},
					{IsExpr: true, Expr: &ast.Ident{Name: "first"}},
					{Text: " "},
					{IsExpr: true, Expr: &ast.Ident{Name: "last"}},
					{Text: "!"},
				}}},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}

func TestEmitSpecToDocs(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name:       "addNumbers",
			Params:     []ast.Param{{Name: "a", Type: tInt()}, {Name: "b", Type: tInt()}},
			ReturnType: tInt(),
			Spec: &ast.SpecBlock{
				Intent:         "add two numbers",
				Rules:          []string{"a and b must be non-negative"},
				Postconditions: []string{"result equals a+b"},
				SourceDoc:      "legacy AddNumbers",
			},
			Body: []ast.Stmt{
				&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: "+", Left: &ast.Ident{Name: "a"}, Right: &ast.Ident{Name: "b"}}},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}

func TestEmitModuleNamespaceAndEntryPoint(t *testing.T) {
	out := mustLower(t, &ast.Program{Decls: []ast.Decl{
		&ast.ModuleDecl{
			Name:    "App",
			Exports: []string{"main"},
			Body: []ast.Decl{
				&ast.FunctionDecl{
					Name: "main",
					Body: []ast.Stmt{
						&ast.ExprStmt{Value: &ast.CallExpr{Name: "noop"}},
					},
				},
			},
		},
	}})
	snaps.MatchSnapshot(t, out)
}
