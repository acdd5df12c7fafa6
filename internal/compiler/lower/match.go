package lower

import (
	"strconv"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/csharp"
)

// lowerMatchExpr lowers a match expression to a chain of C# conditionals
// (§4.3, §8 scenario 4): `scrutinee.IsSuccess ? <Ok arm> : <Error arm>` for
// the two-arm minimum, extended here to N arms by nesting every arm but the
// last inside the Else of the previous one. The last arm is never guarded
// by its own condition — whatever pattern it carries, it is the chain's
// final default, matching the two-arm case exactly when there are only two
// arms and generalizing it when there are more.
func (lw *Lowerer) lowerMatchExpr(m *ast.MatchExpr) csharp.Expr {
	return lw.buildMatchChain(m, 0)
}

func (lw *Lowerer) buildMatchChain(m *ast.MatchExpr, idx int) csharp.Expr {
	c := m.Cases[idx]
	cond, repl := lw.matchCaseCond(m.Scrutinee, c)
	arm := lw.lowerArmBody(c.Body, c.Bind, repl)

	if idx == len(m.Cases)-1 {
		return arm
	}
	return &csharp.Conditional{
		Cond: cond,
		Then: arm,
		Else: lw.buildMatchChain(m, idx+1),
	}
}

// matchCaseCond builds the condition testing whether scrutinee matches
// case c, and the ast-level replacement expression substituted for c.Bind
// inside the arm body (nil when the pattern binds nothing).
func (lw *Lowerer) matchCaseCond(scrutinee ast.Expr, c ast.MatchCase) (csharp.Expr, ast.Expr) {
	member := func(name string) ast.Expr {
		return &ast.MemberExpr{Pos: scrutinee.Position(), Receiver: scrutinee, Name: name}
	}

	switch {
	case c.Tag == "Ok":
		var repl ast.Expr
		if c.Bind != "" {
			repl = member("Value")
		}
		return &csharp.MemberAccess{Receiver: lw.lowerExpr(scrutinee), Name: "IsSuccess"}, repl

	case c.Tag == "Error":
		var repl ast.Expr
		if c.Bind != "" {
			repl = member("Error")
		}
		return &csharp.MemberAccess{Receiver: lw.lowerExpr(scrutinee), Name: "IsError"}, repl

	case c.Tag == "Some":
		var repl ast.Expr
		if c.Bind != "" {
			repl = member("Value")
		}
		return &csharp.MemberAccess{Receiver: lw.lowerExpr(scrutinee), Name: "HasValue"}, repl

	case c.Tag == "None":
		cond := &csharp.Unary{Op: "!", Operand: &csharp.MemberAccess{Receiver: lw.lowerExpr(scrutinee), Name: "HasValue"}}
		return cond, nil

	case c.IsLiteral:
		cond := &csharp.Binary{Op: "==", Left: lw.lowerExpr(scrutinee), Right: literalToExpr(c.LiteralValue)}
		return cond, nil

	default:
		// Plain-identifier-bind, `Name(v)` or wildcard pattern: treated
		// as irrefutable. As the last arm its condition is discarded by
		// buildMatchChain; as a middle arm the condition is `true`, so a
		// non-last catch-all arm always takes its branch.
		var repl ast.Expr
		if c.Bind != "" {
			repl = scrutinee
		}
		return &csharp.Literal{Raw: "true"}, repl
	}
}

func literalToExpr(v any) csharp.Expr {
	switch val := v.(type) {
	case int64:
		return &csharp.Literal{Raw: strconv.FormatInt(val, 10)}
	case string:
		return &csharp.Literal{Raw: strconv.Quote(val)}
	}
	return &csharp.Literal{Raw: "default"}
}

// lowerArmBody finds the arm's representative expression (its last
// ExprStmt — match arms in expression position are single expressions in
// every scenario the language actually exercises), substitutes the bound
// name for repl if there is one, and lowers the result.
func (lw *Lowerer) lowerArmBody(body []ast.Stmt, bind string, repl ast.Expr) csharp.Expr {
	e := lastExprStmtValue(body)
	if e == nil {
		return &csharp.Literal{Raw: "default"}
	}
	if bind != "" && repl != nil {
		e = substituteIdent(e, bind, repl)
	}
	return lw.lowerExpr(e)
}

func lastExprStmtValue(body []ast.Stmt) ast.Expr {
	for i := len(body) - 1; i >= 0; i-- {
		if es, ok := body[i].(*ast.ExprStmt); ok {
			return es.Value
		}
	}
	return nil
}

// substituteIdent deep-copies e, replacing every *ast.Ident named name with
// repl; inside a nested match only the scrutinee is rewritten, its case
// bodies are left as they are. Run at the AST level, before lowering, so that the ordinary
// lowering rules (member-access rewriting, call resolution, arithmetic
// parenthesization) apply to the substituted subtree exactly as they would
// to any other expression (§4.3: "member access inside substituted subtree
// still applies the rewriting rule").
func substituteIdent(e ast.Expr, name string, repl ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.Ident:
		if v.Name == name {
			return repl
		}
		return v
	case *ast.CallExpr:
		return &ast.CallExpr{Pos: v.Pos, Name: v.Name, Args: substituteAll(v.Args, name, repl)}
	case *ast.MethodCallExpr:
		return &ast.MethodCallExpr{
			Pos:      v.Pos,
			Receiver: substituteIdent(v.Receiver, name, repl),
			Method:   v.Method,
			Args:     substituteAll(v.Args, name, repl),
		}
	case *ast.MemberExpr:
		return &ast.MemberExpr{Pos: v.Pos, Receiver: substituteIdent(v.Receiver, name, repl), Name: v.Name}
	case *ast.ListLit:
		return &ast.ListLit{Pos: v.Pos, Elements: substituteAll(v.Elements, name, repl)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{
			Pos:      v.Pos,
			Receiver: substituteIdent(v.Receiver, name, repl),
			Index:    substituteIdent(v.Index, name, repl),
		}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{
			Pos:   v.Pos,
			Op:    v.Op,
			Left:  substituteIdent(v.Left, name, repl),
			Right: substituteIdent(v.Right, name, repl),
		}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Pos: v.Pos, Op: v.Op, Operand: substituteIdent(v.Operand, name, repl)}
	case *ast.TernaryExpr:
		return &ast.TernaryExpr{
			Pos:  v.Pos,
			Cond: substituteIdent(v.Cond, name, repl),
			Then: substituteIdent(v.Then, name, repl),
			Else: substituteIdent(v.Else, name, repl),
		}
	case *ast.InterpolationExpr:
		parts := make([]ast.InterpPart, len(v.Parts))
		for i, p := range v.Parts {
			if p.IsExpr {
				parts[i] = ast.InterpPart{IsExpr: true, Expr: substituteIdent(p.Expr, name, repl)}
			} else {
				parts[i] = p
			}
		}
		return &ast.InterpolationExpr{Pos: v.Pos, Parts: parts}
	case *ast.OkExpr:
		return &ast.OkExpr{Pos: v.Pos, Value: substituteIdent(v.Value, name, repl)}
	case *ast.ErrorExpr:
		return &ast.ErrorExpr{Pos: v.Pos, Value: substituteIdent(v.Value, name, repl)}
	case *ast.SomeExpr:
		return &ast.SomeExpr{Pos: v.Pos, Value: substituteIdent(v.Value, name, repl)}
	case *ast.PropagateExpr:
		return &ast.PropagateExpr{Pos: v.Pos, Value: substituteIdent(v.Value, name, repl)}
	case *ast.MatchExpr:
		return &ast.MatchExpr{Pos: v.Pos, Scrutinee: substituteIdent(v.Scrutinee, name, repl), Cases: v.Cases}
	default:
		// IntLit, DecimalLit, StringLit, BoolLit, NoneExpr: no subexpressions.
		return e
	}
}

func substituteAll(list []ast.Expr, name string, repl ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(list))
	for i, e := range list {
		out[i] = substituteIdent(e, name, repl)
	}
	return out
}
