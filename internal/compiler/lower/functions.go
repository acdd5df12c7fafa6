package lower

import (
	"fmt"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/csharp"
)

// lowerFunctionDecl lowers one function: records its return type for the
// duration of the body, emits a public static method, wraps a trailing
// bare-expression statement in an implicit return, and clears the
// return-type slot on the way out (§4.3).
func (lw *Lowerer) lowerFunctionDecl(fn *ast.FunctionDecl) *csharp.Method {
	lw.currentReturnType = fn.ReturnType
	defer func() { lw.currentReturnType = nil }()

	params := make([]csharp.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = csharp.Param{Name: p.Name, Type: lowerType(p.Type)}
	}

	returnType := "void"
	if fn.ReturnType != nil {
		returnType = lowerType(fn.ReturnType)
	}

	body := wrapImplicitReturn(fn.Body, returnType != "void")

	return &csharp.Method{
		Name:       fn.Name,
		ReturnType: returnType,
		Params:     params,
		Body:       lw.lowerBlock(body),
		Doc:        lw.lowerDoc(fn.Spec, fn.Effects, fn.Pure),
		Static:     true,
	}
}

// wrapImplicitReturn rewrites a non-void function's trailing bare
// expression statement into a return of that expression. If/guard/return
// as the trailing statement are left alone — only a plain ExprStmt is a
// candidate, matching §4.3's "non-return/if/guard trailing expression
// statement" wording.
func wrapImplicitReturn(body []ast.Stmt, hasReturnType bool) []ast.Stmt {
	if !hasReturnType || len(body) == 0 {
		return body
	}
	last, ok := body[len(body)-1].(*ast.ExprStmt)
	if !ok {
		return body
	}
	out := make([]ast.Stmt, len(body))
	copy(out, body)
	out[len(out)-1] = &ast.ReturnStmt{Pos: last.Pos, Value: last.Value}
	return out
}

func (lw *Lowerer) lowerBlock(stmts []ast.Stmt) []csharp.Stmt {
	var out []csharp.Stmt
	for _, s := range stmts {
		out = append(out, lw.lowerStmt(s)...)
	}
	return out
}

func (lw *Lowerer) lowerBlockOrNil(stmts []ast.Stmt) []csharp.Stmt {
	if stmts == nil {
		return nil
	}
	return lw.lowerBlock(stmts)
}

// lowerStmt returns a slice because a single source statement — the
// propagate-bound let — desugars into three target statements.
func (lw *Lowerer) lowerStmt(s ast.Stmt) []csharp.Stmt {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		if st.Value == nil {
			return []csharp.Stmt{&csharp.ReturnStmt{}}
		}
		return []csharp.Stmt{&csharp.ReturnStmt{Value: lw.lowerExpr(st.Value)}}

	case *ast.LetStmt:
		return lw.lowerLetStmt(st)

	case *ast.IfStmt:
		return []csharp.Stmt{&csharp.IfStmt{
			Cond: lw.lowerExpr(st.Cond),
			Then: lw.lowerBlock(st.Then),
			Else: lw.lowerBlockOrNil(st.Else),
		}}

	case *ast.GuardStmt:
		return lw.lowerGuardStmt(st)

	case *ast.ExprStmt:
		return []csharp.Stmt{&csharp.ExprStmt{Value: lw.lowerExpr(st.Value)}}
	}
	return nil
}

// lowerGuardStmt lowers `guard cond else { body }` to
// `if (!(cond)) { body }` (§8 scenario 3). A guard with no else block bails
// with a bare return — the natural reading of "continue only if cond holds"
// when no escape body is written.
func (lw *Lowerer) lowerGuardStmt(st *ast.GuardStmt) []csharp.Stmt {
	cond := &csharp.Unary{Op: "!", Operand: &csharp.Paren{Inner: lw.lowerExpr(st.Cond)}}
	escape := []csharp.Stmt{&csharp.ReturnStmt{}}
	if st.Else != nil {
		escape = lw.lowerBlock(st.Else)
	}
	return []csharp.Stmt{&csharp.IfStmt{Cond: cond, Then: escape}}
}

// lowerLetStmt desugars a propagate-bound let into the exact three
// statements §4.3 specifies; an ordinary let lowers straight to a var
// declaration.
func (lw *Lowerer) lowerLetStmt(st *ast.LetStmt) []csharp.Stmt {
	prop, ok := st.Value.(*ast.PropagateExpr)
	if !ok {
		return []csharp.Stmt{&csharp.VarStmt{Name: st.Name, Value: lw.lowerExpr(st.Value)}}
	}

	resultVar := st.Name + "_result"
	tsucc, terr := lw.currentResultTypeArgs()
	resultIdent := &csharp.Ident{Name: resultVar}

	return []csharp.Stmt{
		&csharp.VarStmt{Name: resultVar, Value: lw.lowerExpr(prop.Value)},
		&csharp.IfStmt{
			Cond: &csharp.MemberAccess{Receiver: resultIdent, Name: "IsError"},
			Then: []csharp.Stmt{&csharp.ReturnStmt{Value: &csharp.Call{
				Receiver: &csharp.Ident{Name: "Result"},
				Name:     fmt.Sprintf("Error<%s, %s>", tsucc, terr),
				Args:     []csharp.Expr{&csharp.MemberAccess{Receiver: resultIdent, Name: "Error"}},
			}}},
		},
		&csharp.VarStmt{Name: st.Name, Value: &csharp.MemberAccess{Receiver: resultIdent, Name: "Value"}},
	}
}

// lowerPropagateExpr is the degraded `?`-in-expression-position form (§9):
// it throws on the error path rather than returning, since there is no
// statement here to hold a three-statement desugaring. It necessarily
// lowers the inner expression twice, once per branch — an accepted
// limitation of the degraded form, not a bug shared with the let-bound
// path, which evaluates its inner expression exactly once.
func (lw *Lowerer) lowerPropagateExpr(inner ast.Expr) csharp.Expr {
	left := lw.lowerExpr(inner)
	right := lw.lowerExpr(inner)
	return &csharp.Conditional{
		Cond: &csharp.MemberAccess{Receiver: left, Name: "IsError"},
		Then: &csharp.Throw{Message: &csharp.Call{
			Receiver: nil,
			Name:     "new InvalidOperationException",
			Args:     []csharp.Expr{&csharp.MemberAccess{Receiver: left, Name: "Error"}},
		}},
		Else: &csharp.MemberAccess{Receiver: right, Name: "Value"},
	}
}
