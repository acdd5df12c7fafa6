package lower

import "github.com/cadenzalang/cadenza/internal/compiler/ast"

// lowerType renders a written Cadenza type as its C# spelling. Result,
// Option and List carry their type arguments through recursively; every
// other name (primitive or user-defined) passes through unchanged, since
// the carriers live under the same names on the target side.
func lowerType(t *ast.Type) string {
	if t == nil || t.Name == "Unit" {
		return "void"
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	s := t.Name + "<"
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += lowerType(a)
	}
	return s + ">"
}

// currentResultTypeArgs recovers Tsucc/Terr for the function currently
// being lowered from its declared Result<Tsucc, Terr> return type, used by
// Ok/Error call sites and the `?` propagation desugaring (§4.3). A function
// whose return type isn't Result<_, _> — the degenerate case the spec
// allows lowering to tolerate rather than abort on — falls back to
// (object, string).
func (lw *Lowerer) currentResultTypeArgs() (string, string) {
	t := lw.currentReturnType
	if t != nil && t.Name == "Result" && len(t.Args) == 2 {
		return lowerType(t.Args[0]), lowerType(t.Args[1])
	}
	return "object", "string"
}

// currentOptionTypeArg recovers T for the function currently being lowered
// from its declared Option<T> return type, used by Some/None call sites.
func (lw *Lowerer) currentOptionTypeArg() string {
	t := lw.currentReturnType
	if t != nil && t.Name == "Option" && len(t.Args) == 1 {
		return lowerType(t.Args[0])
	}
	return "object"
}
