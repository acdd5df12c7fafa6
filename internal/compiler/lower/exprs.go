package lower

import (
	"fmt"
	"strconv"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/csharp"
)

func (lw *Lowerer) lowerExprs(exprs []ast.Expr) []csharp.Expr {
	out := make([]csharp.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = lw.lowerExpr(e)
	}
	return out
}

func (lw *Lowerer) lowerExpr(e ast.Expr) csharp.Expr {
	switch expr := e.(type) {
	case *ast.IntLit:
		return &csharp.Literal{Raw: strconv.FormatInt(expr.Value, 10)}
	case *ast.DecimalLit:
		return &csharp.Literal{Raw: strconv.FormatFloat(expr.Value, 'f', -1, 64) + "m"}
	case *ast.StringLit:
		return &csharp.Literal{Raw: strconv.Quote(expr.Value)}
	case *ast.BoolLit:
		if expr.Value {
			return &csharp.Literal{Raw: "true"}
		}
		return &csharp.Literal{Raw: "false"}
	case *ast.Ident:
		return &csharp.Ident{Name: expr.Name}
	case *ast.CallExpr:
		return lw.lowerCallExpr(expr)
	case *ast.MethodCallExpr:
		return lw.lowerMethodCallExpr(expr)
	case *ast.MemberExpr:
		name := expr.Name
		if name == "length" {
			name = "Count"
		}
		return &csharp.MemberAccess{Receiver: lw.lowerExpr(expr.Receiver), Name: name}
	case *ast.ListLit:
		return &csharp.ObjectCreation{
			Type:     "List<" + inferListElementType(expr.Elements) + ">",
			Elements: lw.lowerExprs(expr.Elements),
		}
	case *ast.IndexExpr:
		return &csharp.Index{Receiver: lw.lowerExpr(expr.Receiver), Index: lw.lowerExpr(expr.Index)}
	case *ast.BinaryExpr:
		return lw.lowerBinaryExpr(expr)
	case *ast.UnaryExpr:
		return &csharp.Unary{Op: expr.Op, Operand: lw.lowerExpr(expr.Operand)}
	case *ast.TernaryExpr:
		return &csharp.Conditional{
			Cond: lw.lowerExpr(expr.Cond),
			Then: lw.lowerExpr(expr.Then),
			Else: lw.lowerExpr(expr.Else),
		}
	case *ast.InterpolationExpr:
		return lw.lowerInterpolation(expr)
	case *ast.OkExpr:
		tsucc, terr := lw.currentResultTypeArgs()
		return &csharp.Call{
			Receiver: &csharp.Ident{Name: "Result"},
			Name:     fmt.Sprintf("Ok<%s, %s>", tsucc, terr),
			Args:     []csharp.Expr{lw.lowerExpr(expr.Value)},
		}
	case *ast.ErrorExpr:
		tsucc, terr := lw.currentResultTypeArgs()
		return &csharp.Call{
			Receiver: &csharp.Ident{Name: "Result"},
			Name:     fmt.Sprintf("Error<%s, %s>", tsucc, terr),
			Args:     []csharp.Expr{lw.lowerExpr(expr.Value)},
		}
	case *ast.SomeExpr:
		t := lw.currentOptionTypeArg()
		return &csharp.Call{
			Receiver: &csharp.Ident{Name: "Option"},
			Name:     fmt.Sprintf("Some<%s>", t),
			Args:     []csharp.Expr{lw.lowerExpr(expr.Value)},
		}
	case *ast.NoneExpr:
		t := lw.currentOptionTypeArg()
		return &csharp.Call{
			Receiver: &csharp.Ident{Name: "Option"},
			Name:     fmt.Sprintf("None<%s>", t),
		}
	case *ast.PropagateExpr:
		return lw.lowerPropagateExpr(expr.Value)
	case *ast.MatchExpr:
		return lw.lowerMatchExpr(expr)
	}
	return &csharp.Literal{Raw: "default"}
}

// lowerCallExpr resolves a bare call: qualified when the name was brought
// in by an import, unqualified otherwise (§4.3 name resolution).
func (lw *Lowerer) lowerCallExpr(e *ast.CallExpr) csharp.Expr {
	if tgt, ok := lw.imports[e.Name]; ok {
		return &csharp.Call{
			Receiver: &csharp.Ident{Name: tgt.Namespace + "." + tgt.Class},
			Name:     tgt.Name,
			Args:     lw.lowerExprs(e.Args),
		}
	}
	return &csharp.Call{Name: e.Name, Args: lw.lowerExprs(e.Args)}
}

// lowerMethodCallExpr resolves a dotted call: a module-name receiver fully
// qualifies to the namespace and class; any other receiver lowers as an
// ordinary member-call on that receiver's own lowered expression (§4.3).
func (lw *Lowerer) lowerMethodCallExpr(e *ast.MethodCallExpr) csharp.Expr {
	if recv, ok := e.Receiver.(*ast.Ident); ok {
		if mod, ok := lw.modules[recv.Name]; ok {
			return &csharp.Call{
				Receiver: &csharp.Ident{Name: mod.namespace + "." + mod.className},
				Name:     e.Method,
				Args:     lw.lowerExprs(e.Args),
			}
		}
	}
	return &csharp.Call{
		Receiver: lw.lowerExpr(e.Receiver),
		Name:     e.Method,
		Args:     lw.lowerExprs(e.Args),
	}
}

func (lw *Lowerer) lowerInterpolation(e *ast.InterpolationExpr) csharp.Expr {
	parts := make([]csharp.InterpPart, len(e.Parts))
	for i, p := range e.Parts {
		if p.IsExpr {
			parts[i] = csharp.InterpPart{IsExpr: true, Expr: lw.lowerExpr(p.Expr)}
		} else {
			parts[i] = csharp.InterpPart{Text: p.Text}
		}
	}
	return &csharp.InterpolatedString{Parts: parts}
}

// lowerBinaryExpr parenthesizes an arithmetic operand sitting under a
// comparison or logical operator (§4.3) — `(a + b) > c`, not `a + b > c`.
func (lw *Lowerer) lowerBinaryExpr(e *ast.BinaryExpr) csharp.Expr {
	return &csharp.Binary{
		Op:    e.Op,
		Left:  lw.lowerOperand(e.Left, e.Op),
		Right: lw.lowerOperand(e.Right, e.Op),
	}
}

func (lw *Lowerer) lowerOperand(e ast.Expr, parentOp string) csharp.Expr {
	lowered := lw.lowerExpr(e)
	if be, ok := e.(*ast.BinaryExpr); ok && isComparisonOrLogical(parentOp) && isArithmetic(be.Op) {
		return &csharp.Paren{Inner: lowered}
	}
	return lowered
}

func isComparisonOrLogical(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=", "&&", "||":
		return true
	}
	return false
}

func isArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

// inferListElementType infers a List<T> element type from the literal's
// elements: the shared literal kind when every element agrees, "object"
// for an empty or heterogeneous list (§4.3, §9).
func inferListElementType(elems []ast.Expr) string {
	if len(elems) == 0 {
		return "object"
	}
	t := literalKind(elems[0])
	for _, e := range elems[1:] {
		if literalKind(e) != t {
			return "object"
		}
	}
	return t
}

func literalKind(e ast.Expr) string {
	switch e.(type) {
	case *ast.IntLit:
		return "int"
	case *ast.DecimalLit:
		return "decimal"
	case *ast.StringLit:
		return "string"
	case *ast.BoolLit:
		return "bool"
	}
	return "object"
}
