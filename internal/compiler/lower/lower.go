// Package lower performs the syntax-directed AST-to-target-tree lowering
// (§4.3): a two-pass walk that first collects module namespaces and import
// bindings, then emits the csharp compilation unit. It carries the
// transient per-function lowering state the teacher's Transpiler carries
// for its own per-function bookkeeping (the current return type) as a field
// on Lowerer, cleared at function boundaries rather than threaded through
// every call. A let-bound `?` is lowered directly to its three statements;
// there is no error-propagation slot carried between statements.
package lower

import (
	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/cerrors"
	"github.com/cadenzalang/cadenza/internal/compiler/csharp"
)

const modulesRoot = "Cadenza.Modules"

// target is where an imported or module-qualified symbol resolves to.
type target struct {
	Namespace string
	Class     string
	Name      string
}

type moduleInfo struct {
	namespace string
	className string
	exports   map[string]bool
}

// Lowerer holds the transient state built up across the two passes and
// consumed while emitting a single function body. Construct it with New;
// the zero value's maps are nil.
type Lowerer struct {
	modules map[string]*moduleInfo
	imports map[string]target

	// currentReturnType is the declared return type of the function
	// currently being lowered; nil outside a function body. Used to
	// recover Tsucc/Terr for Result.Ok/Result.Error call sites and the
	// propagate desugaring, and the element type for Option.Some/None.
	currentReturnType *ast.Type
}

func New() *Lowerer {
	return &Lowerer{
		modules: make(map[string]*moduleInfo),
		imports: make(map[string]target),
	}
}

// Lower runs both passes over prog and returns the lowered compilation unit.
func Lower(prog *ast.Program) (*csharp.CompilationUnit, error) {
	lw := New()
	lw.collectModules(prog)
	lw.collectImports(prog)
	return lw.emit(prog)
}

// collectModules is pass 1: register every module's namespace, class name
// and exported-symbol set before any function body is lowered, so that
// forward references and cross-module imports resolve regardless of
// declaration order.
func (lw *Lowerer) collectModules(prog *ast.Program) {
	for _, d := range prog.Decls {
		mod, ok := d.(*ast.ModuleDecl)
		if !ok {
			continue
		}
		exports := make(map[string]bool)
		for _, n := range mod.Exports {
			exports[n] = true
		}
		for _, member := range mod.Body {
			if fn, ok := member.(*ast.FunctionDecl); ok && fn.Exported {
				exports[fn.Name] = true
			}
		}
		lw.modules[mod.Name] = &moduleInfo{
			namespace: modulesRoot + "." + mod.Name,
			className: mod.Name,
			exports:   exports,
		}
	}
}

// collectImports is the second half of pass 1: fold every import
// declaration into the imported-symbols map used by bare-call resolution.
func (lw *Lowerer) collectImports(prog *ast.Program) {
	for _, d := range prog.Decls {
		imp, ok := d.(*ast.ImportDecl)
		if !ok {
			continue
		}
		mod, known := lw.modules[imp.Module]
		var ns, class string
		var names []string
		if known {
			ns, class = mod.namespace, mod.className
			if imp.Wildcard {
				for n := range mod.exports {
					names = append(names, n)
				}
			} else {
				names = imp.Names
			}
		} else {
			// Module declared in another compilation unit: assume the
			// same namespace convention and import exactly the names
			// named explicitly (a wildcard import of an unknown module
			// has nothing to enumerate).
			ns, class = modulesRoot+"."+imp.Module, imp.Module
			names = imp.Names
		}
		for _, n := range names {
			lw.imports[n] = target{Namespace: ns, Class: class, Name: n}
		}
	}
}

// emit is pass 2: walk the declarations in source order, emitting module
// namespaces, collecting free functions into the synthetic Program class,
// and synthesizing the Result/Option carriers and entry-point call.
func (lw *Lowerer) emit(prog *ast.Program) (*csharp.CompilationUnit, error) {
	unit := &csharp.CompilationUnit{
		Usings: []string{"System", "System.Collections.Generic"},
	}
	unit.Classes = append(unit.Classes, buildResultCarrier()...)
	unit.Classes = append(unit.Classes, buildOptionCarrier()...)

	// A pure function may not declare effects; the parser accepts both
	// forms, so the combination is rejected here.
	for _, d := range prog.Decls {
		fns := []ast.Decl{d}
		if mod, ok := d.(*ast.ModuleDecl); ok {
			fns = mod.Body
		}
		for _, member := range fns {
			if fn, ok := member.(*ast.FunctionDecl); ok && fn.Pure && len(fn.Effects) > 0 {
				return nil, cerrors.New("lowering", fn.Pos, "pure function %s cannot declare effects", fn.Name)
			}
		}
	}

	var freeFns []*csharp.Method
	entryPoint := ""

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ModuleDecl:
			info := lw.modules[decl.Name]
			class := &csharp.Class{
				Name:   info.className,
				Static: true,
				Doc:    lw.lowerDoc(decl.Spec, nil, false),
			}
			for _, member := range decl.Body {
				fn, ok := member.(*ast.FunctionDecl)
				if !ok {
					continue
				}
				method := lw.lowerFunctionDecl(fn)
				class.Methods = append(class.Methods, method)
				if fn.Name == "main" && entryPoint == "" {
					entryPoint = info.namespace + "." + info.className + ".main();"
				}
			}
			unit.Namespaces = append(unit.Namespaces, &csharp.Namespace{
				Name:    info.namespace,
				Classes: []*csharp.Class{class},
			})

		case *ast.FunctionDecl:
			method := lw.lowerFunctionDecl(decl)
			freeFns = append(freeFns, method)
			if decl.Name == "main" {
				entryPoint = "Program.main();"
			}

		case *ast.ImportDecl, *ast.ExportDecl:
			// Already folded into name-resolution state during pass 1;
			// neither form emits code of its own.

		case *ast.ComponentDecl, *ast.AppStateDecl, *ast.ApiClientDecl:
			// UI-side declarations are outside lowering's scope (ast.go);
			// they pass through the pipeline unlowered.
		}
	}

	if len(freeFns) > 0 {
		unit.Classes = append(unit.Classes, &csharp.Class{
			Name:    "Program",
			Static:  true,
			Methods: freeFns,
		})
	}
	unit.EntryPointCall = entryPoint
	return unit, nil
}
