package lower

import (
	"strings"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/csharp"
)

// lowerDoc maps a spec block to structured doc trivia, or else falls back
// to an effects-derived or empty summary (§4.3: spec-to-doc mapping).
func (lw *Lowerer) lowerDoc(spec *ast.SpecBlock, effects []string, pure bool) *csharp.DocComment {
	if spec != nil {
		return &csharp.DocComment{
			Summary:  spec.Intent,
			Rules:    append([]string(nil), spec.Rules...),
			Outcomes: append([]string(nil), spec.Postconditions...),
			Source:   spec.SourceDoc,
		}
	}
	if pure {
		return &csharp.DocComment{Summary: "Pure function - no side effects"}
	}
	if len(effects) > 0 {
		return &csharp.DocComment{Summary: "Effects: " + strings.Join(effects, ", ")}
	}
	return &csharp.DocComment{}
}
