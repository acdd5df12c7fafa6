// Package emit walks a csharp.CompilationUnit and serializes it to C#
// source text: a thin formatter, per spec §4.4 ("implementers may reuse a
// target-language syntax library or write a small pretty-printer") — there
// is no C# formatting library anywhere in the retrieved pack, so this stays
// a small pretty-printer in the teacher's own emit/emitIndent idiom.
package emit

import (
	"fmt"
	"strings"

	"github.com/cadenzalang/cadenza/internal/compiler/csharp"
)

const indentUnit = "    "

// printer accumulates output text the same way the teacher's Transpiler
// does: a strings.Builder plus a depth counter, with emit/emitIndent as the
// only two primitives every other print method is built from.
type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) emit(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) emitIndent() {
	p.buf.WriteString(strings.Repeat(indentUnit, p.indent))
}

// Unit renders a full compilation unit to C# source text.
func Unit(u *csharp.CompilationUnit) string {
	p := &printer{}
	p.printUnit(u)
	return p.buf.String()
}

func (p *printer) printUnit(u *csharp.CompilationUnit) {
	for _, using := range u.Usings {
		p.emit("using %s;\n", using)
	}
	if len(u.Usings) > 0 {
		p.emit("\n")
	}

	for i, c := range u.Classes {
		if i > 0 {
			p.emit("\n")
		}
		p.printClass(c)
	}

	for _, ns := range u.Namespaces {
		p.emit("\n")
		p.emit("namespace %s\n", ns.Name)
		p.emit("{\n")
		p.indent++
		for i, c := range ns.Classes {
			if i > 0 {
				p.emit("\n")
			}
			p.printClass(c)
		}
		p.indent--
		p.emit("}\n")
	}

	if u.EntryPointCall != "" {
		p.emit("\n")
		p.emit("public static class EntryPoint\n")
		p.emit("{\n")
		p.indent++
		p.emitIndent()
		p.emit("public static void Main(string[] args)\n")
		p.emitIndent()
		p.emit("{\n")
		p.indent++
		p.emitIndent()
		p.emit("%s\n", u.EntryPointCall)
		p.indent--
		p.emitIndent()
		p.emit("}\n")
		p.indent--
		p.emit("}\n")
	}
}

func (p *printer) printClass(c *csharp.Class) {
	p.printDoc(c.Doc)
	p.emitIndent()
	if c.Static {
		p.emit("public static class %s\n", c.Name)
	} else {
		p.emit("public class %s\n", c.Name)
	}
	p.emitIndent()
	p.emit("{\n")
	p.indent++

	for i, f := range c.Fields {
		if i > 0 {
			p.emit("\n")
		}
		p.printField(f)
	}
	if len(c.Fields) > 0 && len(c.Methods) > 0 {
		p.emit("\n")
	}
	for i, m := range c.Methods {
		if i > 0 {
			p.emit("\n")
		}
		p.printMethod(m)
	}

	p.indent--
	p.emitIndent()
	p.emit("}\n")
}

func (p *printer) printField(f *csharp.Field) {
	p.emitIndent()
	modifiers := f.Modifiers
	if modifiers == "" {
		modifiers = "public"
	}
	if f.Init != nil {
		p.emit("%s %s %s = %s;\n", modifiers, f.Type, f.Name, renderExpr(f.Init))
	} else {
		p.emit("%s %s %s;\n", modifiers, f.Type, f.Name)
	}
}

func (p *printer) printMethod(m *csharp.Method) {
	p.printDoc(m.Doc)
	p.emitIndent()
	static := ""
	if m.Static {
		static = "static "
	}
	p.emit("public %s%s %s(%s)\n", static, m.ReturnType, m.Name, renderParams(m.Params))
	p.emitIndent()
	p.emit("{\n")
	p.indent++
	for _, s := range m.Body {
		p.printStmt(s)
	}
	p.indent--
	p.emitIndent()
	p.emit("}\n")
}

func renderParams(params []csharp.Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		parts[i] = prm.Type + " " + prm.Name
	}
	return strings.Join(parts, ", ")
}

// printDoc renders a spec block (or effects/placeholder fallback) as C#
// triple-slash XML doc trivia — standard C# doc-comment convention, the
// natural target for structured spec-to-docs mapping (§4.3).
func (p *printer) printDoc(doc *csharp.DocComment) {
	if doc == nil || (doc.Summary == "" && len(doc.Rules) == 0 && len(doc.Outcomes) == 0 && doc.Source == "") {
		return
	}
	p.emitIndent()
	p.emit("/// <summary>\n")
	if doc.Summary != "" {
		p.emitIndent()
		p.emit("/// %s\n", doc.Summary)
	}
	p.emitIndent()
	p.emit("/// </summary>\n")

	if len(doc.Rules) == 0 && len(doc.Outcomes) == 0 && doc.Source == "" {
		return
	}
	p.emitIndent()
	p.emit("/// <remarks>\n")
	if len(doc.Rules) > 0 {
		p.emitIndent()
		p.emit("/// Business Rules:\n")
		for _, r := range doc.Rules {
			p.emitIndent()
			p.emit("/// - %s\n", r)
		}
	}
	if len(doc.Outcomes) > 0 {
		p.emitIndent()
		p.emit("/// Expected Outcomes:\n")
		for _, o := range doc.Outcomes {
			p.emitIndent()
			p.emit("/// - %s\n", o)
		}
	}
	if doc.Source != "" {
		p.emitIndent()
		p.emit("/// Source: %s\n", doc.Source)
	}
	p.emitIndent()
	p.emit("/// </remarks>\n")
}

func (p *printer) printStmt(s csharp.Stmt) {
	switch st := s.(type) {
	case *csharp.VarStmt:
		p.emitIndent()
		p.emit("var %s = %s;\n", st.Name, renderExpr(st.Value))

	case *csharp.IfStmt:
		p.emitIndent()
		p.emit("if (%s)\n", renderExpr(st.Cond))
		p.emitIndent()
		p.emit("{\n")
		p.indent++
		for _, inner := range st.Then {
			p.printStmt(inner)
		}
		p.indent--
		p.emitIndent()
		p.emit("}\n")
		if st.Else != nil {
			p.emitIndent()
			p.emit("else\n")
			p.emitIndent()
			p.emit("{\n")
			p.indent++
			for _, inner := range st.Else {
				p.printStmt(inner)
			}
			p.indent--
			p.emitIndent()
			p.emit("}\n")
		}

	case *csharp.ReturnStmt:
		p.emitIndent()
		if st.Value == nil {
			p.emit("return;\n")
		} else {
			p.emit("return %s;\n", renderExpr(st.Value))
		}

	case *csharp.ExprStmt:
		p.emitIndent()
		p.emit("%s;\n", renderExpr(st.Value))
	}
}

// renderExpr renders an expression to inline text. It is free-standing
// (not a printer method) since expressions never need indentation of their
// own — they're always embedded in a statement or another expression.
func renderExpr(e csharp.Expr) string {
	switch expr := e.(type) {
	case *csharp.Literal:
		return expr.Raw

	case *csharp.Ident:
		return expr.Name

	case *csharp.Call:
		args := renderArgs(expr.Args)
		if expr.Receiver == nil {
			return fmt.Sprintf("%s(%s)", expr.Name, args)
		}
		return fmt.Sprintf("%s.%s(%s)", renderExpr(expr.Receiver), expr.Name, args)

	case *csharp.MemberAccess:
		return fmt.Sprintf("%s.%s", renderExpr(expr.Receiver), expr.Name)

	case *csharp.Index:
		return fmt.Sprintf("%s[%s]", renderExpr(expr.Receiver), renderExpr(expr.Index))

	case *csharp.Binary:
		return fmt.Sprintf("%s %s %s", renderExpr(expr.Left), expr.Op, renderExpr(expr.Right))

	case *csharp.Unary:
		return expr.Op + renderExpr(expr.Operand)

	case *csharp.Conditional:
		return fmt.Sprintf("%s ? %s : %s", renderExpr(expr.Cond), renderExpr(expr.Then), renderExpr(expr.Else))

	case *csharp.Paren:
		return "(" + renderExpr(expr.Inner) + ")"

	case *csharp.InterpolatedString:
		return renderInterpolatedString(expr)

	case *csharp.ObjectCreation:
		return fmt.Sprintf("new %s { %s }", expr.Type, renderArgs(expr.Elements))

	case *csharp.Throw:
		return "throw " + renderExpr(expr.Message)
	}
	return ""
}

func renderArgs(args []csharp.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderExpr(a)
	}
	return strings.Join(parts, ", ")
}

func renderInterpolatedString(e *csharp.InterpolatedString) string {
	var b strings.Builder
	b.WriteString(`$"`)
	for _, part := range e.Parts {
		if part.IsExpr {
			b.WriteString("{")
			b.WriteString(renderExpr(part.Expr))
			b.WriteString("}")
			continue
		}
		b.WriteString(escapeInterpolatedLiteral(part.Text))
	}
	b.WriteString(`"`)
	return b.String()
}

// escapeInterpolatedLiteral escapes quotes and doubles literal braces so
// they survive inside a C# interpolated string ($"...") unchanged.
func escapeInterpolatedLiteral(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "{", "{{")
	s = strings.ReplaceAll(s, "}", "}}")
	return s
}
