package ast

import (
	"testing"

	"github.com/cadenzalang/cadenza/internal/compiler/token"
)

func TestPositionsRoundTrip(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7, Offset: 20}

	tests := []struct {
		name string
		node Node
	}{
		{"ModuleDecl", &ModuleDecl{Pos: pos}},
		{"ImportDecl", &ImportDecl{Pos: pos}},
		{"ExportDecl", &ExportDecl{Pos: pos}},
		{"FunctionDecl", &FunctionDecl{Pos: pos}},
		{"ComponentDecl", &ComponentDecl{Pos: pos}},
		{"AppStateDecl", &AppStateDecl{Pos: pos}},
		{"ApiClientDecl", &ApiClientDecl{Pos: pos}},
		{"Type", &Type{Pos: pos}},
		{"ReturnStmt", &ReturnStmt{Pos: pos}},
		{"IfStmt", &IfStmt{Pos: pos}},
		{"LetStmt", &LetStmt{Pos: pos}},
		{"GuardStmt", &GuardStmt{Pos: pos}},
		{"ExprStmt", &ExprStmt{Pos: pos}},
		{"IntLit", &IntLit{Pos: pos}},
		{"DecimalLit", &DecimalLit{Pos: pos}},
		{"StringLit", &StringLit{Pos: pos}},
		{"BoolLit", &BoolLit{Pos: pos}},
		{"Ident", &Ident{Pos: pos}},
		{"CallExpr", &CallExpr{Pos: pos}},
		{"MethodCallExpr", &MethodCallExpr{Pos: pos}},
		{"MemberExpr", &MemberExpr{Pos: pos}},
		{"ListLit", &ListLit{Pos: pos}},
		{"IndexExpr", &IndexExpr{Pos: pos}},
		{"BinaryExpr", &BinaryExpr{Pos: pos}},
		{"UnaryExpr", &UnaryExpr{Pos: pos}},
		{"TernaryExpr", &TernaryExpr{Pos: pos}},
		{"InterpolationExpr", &InterpolationExpr{Pos: pos}},
		{"OkExpr", &OkExpr{Pos: pos}},
		{"ErrorExpr", &ErrorExpr{Pos: pos}},
		{"SomeExpr", &SomeExpr{Pos: pos}},
		{"NoneExpr", &NoneExpr{Pos: pos}},
		{"PropagateExpr", &PropagateExpr{Pos: pos}},
		{"MatchExpr", &MatchExpr{Pos: pos}},
		{"SpecBlock", &SpecBlock{Pos: pos}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Position(); got != pos {
				t.Errorf("%s.Position() = %+v, want %+v", tt.name, got, pos)
			}
		})
	}
}

func TestDeclStmtExprMarkersAreExhaustive(t *testing.T) {
	var decls []Decl = []Decl{
		&ModuleDecl{}, &ImportDecl{}, &ExportDecl{}, &FunctionDecl{},
		&ComponentDecl{}, &AppStateDecl{}, &ApiClientDecl{},
	}
	var stmts []Stmt = []Stmt{
		&ReturnStmt{}, &IfStmt{}, &LetStmt{}, &GuardStmt{}, &ExprStmt{},
	}
	var exprs []Expr = []Expr{
		&IntLit{}, &DecimalLit{}, &StringLit{}, &BoolLit{}, &Ident{},
		&CallExpr{}, &MethodCallExpr{}, &MemberExpr{}, &ListLit{}, &IndexExpr{},
		&BinaryExpr{}, &UnaryExpr{}, &TernaryExpr{}, &InterpolationExpr{},
		&OkExpr{}, &ErrorExpr{}, &SomeExpr{}, &NoneExpr{}, &PropagateExpr{}, &MatchExpr{},
	}

	if len(decls) == 0 || len(stmts) == 0 || len(exprs) == 0 {
		t.Fatal("marker slices must be non-empty")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{&Type{Name: "int"}, "int"},
		{&Type{Name: "Unit"}, "Unit"},
		{&Type{Name: "Option", Args: []*Type{{Name: "string"}}}, "Option<string>"},
		{
			&Type{Name: "Result", Args: []*Type{
				{Name: "List", Args: []*Type{{Name: "int"}}},
				{Name: "string"},
			}},
			"Result<List<int>, string>",
		},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestProgramPositionFallsBackToFirstDecl(t *testing.T) {
	p := &Program{}
	if got := p.Position(); got.Line != 1 || got.Column != 1 {
		t.Errorf("empty Program.Position() = %+v, want line 1 column 1", got)
	}

	pos := token.Position{Line: 5, Column: 2}
	p = &Program{Decls: []Decl{&FunctionDecl{Pos: pos}}}
	if got := p.Position(); got != pos {
		t.Errorf("Program.Position() = %+v, want %+v", got, pos)
	}
}

func TestMatchCaseShapes(t *testing.T) {
	cases := []MatchCase{
		{Tag: "Ok", Bind: "v"},
		{Tag: "Error", Bind: "e"},
		{Tag: "Some", Bind: "v"},
		{Tag: "None"},
		{IsLiteral: true, LiteralValue: int64(0)},
		{IsLiteral: true, LiteralValue: "none"},
		{IsWildcard: true},
	}
	if len(cases) != 7 {
		t.Fatalf("expected 7 match case shapes, got %d", len(cases))
	}
}
