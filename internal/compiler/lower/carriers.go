package lower

import "github.com/cadenzalang/cadenza/internal/compiler/csharp"

// buildResultCarrier and buildOptionCarrier each synthesize a pair of
// classes once per compilation unit (§4.3): a generic data shape holding the
// instance fields, and a separate non-generic factory class hosting the
// generic static methods — the `Tuple`/`Tuple<T1,T2>` pattern spec §4.3
// itself names ("a generic data shape ... and a helper factory"). A generic
// type can't be referenced by its bare name in C#, so `Result.Ok<int,
// string>(...)` needs a non-generic `Result` to hang `Ok`/`Error` off of;
// `Result<TSuccess, TError>` is the data shape those methods construct and
// return. Both data classes expose their flag fields directly rather than as
// computed properties — the csharp tree has no getter-body concept, so the
// factory methods set both flag fields (and the payload field of their own
// case) at construction instead of deriving IsError from IsSuccess at read
// time. Field assignment inside the
// object-initializer braces reuses Binary{Op: "="} rather than adding a
// dedicated node: it is exactly that shape, textually, and emit already
// knows how to print it.

func resultDataClass() *csharp.Class {
	return &csharp.Class{
		Name: "Result<TSuccess, TError>",
		Fields: []*csharp.Field{
			{Name: "IsSuccess", Type: "bool", Modifiers: "public"},
			{Name: "IsError", Type: "bool", Modifiers: "public"},
			{Name: "Value", Type: "TSuccess", Modifiers: "public"},
			{Name: "Error", Type: "TError", Modifiers: "public"},
		},
	}
}

func resultFactoryClass() *csharp.Class {
	return &csharp.Class{
		Name:   "Result",
		Static: true,
		Methods: []*csharp.Method{
			{
				Name:       "Ok<TSuccess, TError>",
				ReturnType: "Result<TSuccess, TError>",
				Static:     true,
				Params:     []csharp.Param{{Name: "value", Type: "TSuccess"}},
				Body: []csharp.Stmt{&csharp.ReturnStmt{Value: &csharp.ObjectCreation{
					Type: "Result<TSuccess, TError>",
					Elements: []csharp.Expr{
						set("IsSuccess", &csharp.Literal{Raw: "true"}),
						set("IsError", &csharp.Literal{Raw: "false"}),
						set("Value", &csharp.Ident{Name: "value"}),
					},
				}}},
			},
			{
				Name:       "Error<TSuccess, TError>",
				ReturnType: "Result<TSuccess, TError>",
				Static:     true,
				Params:     []csharp.Param{{Name: "error", Type: "TError"}},
				Body: []csharp.Stmt{&csharp.ReturnStmt{Value: &csharp.ObjectCreation{
					Type: "Result<TSuccess, TError>",
					Elements: []csharp.Expr{
						set("IsSuccess", &csharp.Literal{Raw: "false"}),
						set("IsError", &csharp.Literal{Raw: "true"}),
						set("Error", &csharp.Ident{Name: "error"}),
					},
				}}},
			},
		},
	}
}

func optionDataClass() *csharp.Class {
	return &csharp.Class{
		Name: "Option<T>",
		Fields: []*csharp.Field{
			{Name: "HasValue", Type: "bool", Modifiers: "public"},
			{Name: "Value", Type: "T", Modifiers: "public"},
		},
	}
}

func optionFactoryClass() *csharp.Class {
	return &csharp.Class{
		Name:   "Option",
		Static: true,
		Methods: []*csharp.Method{
			{
				Name:       "Some<T>",
				ReturnType: "Option<T>",
				Static:     true,
				Params:     []csharp.Param{{Name: "value", Type: "T"}},
				Body: []csharp.Stmt{&csharp.ReturnStmt{Value: &csharp.ObjectCreation{
					Type: "Option<T>",
					Elements: []csharp.Expr{
						set("HasValue", &csharp.Literal{Raw: "true"}),
						set("Value", &csharp.Ident{Name: "value"}),
					},
				}}},
			},
			{
				Name:       "None<T>",
				ReturnType: "Option<T>",
				Static:     true,
				Body: []csharp.Stmt{&csharp.ReturnStmt{Value: &csharp.ObjectCreation{
					Type: "Option<T>",
					Elements: []csharp.Expr{
						set("HasValue", &csharp.Literal{Raw: "false"}),
					},
				}}},
			},
		},
	}
}

// buildResultCarrier returns the Result data class and its factory class.
func buildResultCarrier() []*csharp.Class {
	return []*csharp.Class{resultDataClass(), resultFactoryClass()}
}

// buildOptionCarrier returns the Option data class and its factory class.
func buildOptionCarrier() []*csharp.Class {
	return []*csharp.Class{optionDataClass(), optionFactoryClass()}
}

func set(field string, value csharp.Expr) csharp.Expr {
	return &csharp.Binary{Op: "=", Left: &csharp.Ident{Name: field}, Right: value}
}
