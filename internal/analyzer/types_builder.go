package analyzer

import (
	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/prettyprinter"
	"github.com/funvibe/typedemand/internal/symbols"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// BuildType converts an AST Type node into a typesystem.Type.
// Undeclared names are reported as A002 and become the error type, so one
// typo yields one diagnostic.
func BuildType(t ast.Type, table *symbols.SymbolTable, errs *[]*diagnostics.DiagnosticError) typesystem.Type {
	if t == nil {
		return typesystem.ErrorType()
	}
	switch t := t.(type) {
	case *ast.NamedType:
		args := make([]typesystem.Type, 0, len(t.Args))
		for _, arg := range t.Args {
			args = append(args, BuildType(arg, table, errs))
		}

		var base typesystem.Type
		if t.IsVariable() {
			// Lowercase names are inference variables; a variable applied to
			// arguments stands for a type constructor (F<a>).
			tv := typesystem.TVar{Name: t.Name.Value}
			if len(args) > 0 {
				tv.KindVal = constructorKind(len(args))
			}
			base = tv
		} else {
			resolved, ok := table.ResolveType(t.Name.Value)
			if !ok {
				*errs = append(*errs, diagnostics.NewError(diagnostics.ErrA002, t.GetToken(), t.Name.Value))
				return typesystem.ErrorType()
			}
			base = resolved
		}

		if len(args) == 0 {
			return base
		}
		return typesystem.TApp{Constructor: base, Args: args}

	case *ast.TupleType:
		elements := make([]typesystem.Type, 0, len(t.Types))
		for _, el := range t.Types {
			elements = append(elements, BuildType(el, table, errs))
		}
		return typesystem.TTuple{Elements: elements}

	case *ast.RecordType:
		fields := make(map[string]typesystem.Type, len(t.Fields))
		for name, f := range t.Fields {
			fields[name] = BuildType(f, table, errs)
		}
		rec := typesystem.TRecord{Fields: fields, IsOpen: t.IsOpen}
		if t.Row != nil {
			rec.Row = typesystem.TVar{Name: t.Row.Value}
		}
		return rec

	case *ast.FunctionType:
		params := make([]typesystem.Type, 0, len(t.Parameters))
		for _, p := range t.Parameters {
			params = append(params, BuildType(p, table, errs))
		}
		return typesystem.TFunc{
			Params:     params,
			ReturnType: BuildType(t.ReturnType, table, errs),
			IsVariadic: t.IsVariadic,
		}

	case *ast.UnionType:
		members := make([]typesystem.Type, 0, len(t.Types))
		for _, m := range t.Types {
			members = append(members, BuildType(m, table, errs))
		}
		return typesystem.NormalizeUnion(members)

	case *ast.ReferenceType:
		return typesystem.TRef{
			Region:  t.Region,
			Mutable: t.Mutable,
			Elem:    BuildType(t.Elem, table, errs),
		}
	}
	return typesystem.ErrorType()
}

// BuildCheckedType is BuildType followed by a kind check. An ill-kinded type
// is reported as A006 and replaced by the error type.
func BuildCheckedType(t ast.Type, table *symbols.SymbolTable, errs *[]*diagnostics.DiagnosticError) typesystem.Type {
	before := len(*errs)
	result := BuildType(t, table, errs)
	if len(*errs) > before {
		return result
	}
	if _, err := typesystem.KindCheck(result); err != nil {
		*errs = append(*errs, diagnostics.NewError(diagnostics.ErrA006, t.GetToken(), prettyprinter.Print(t), err.Error()))
		return typesystem.ErrorType()
	}
	return result
}

// constructorKind returns * -> ... -> * taking n arguments.
func constructorKind(n int) typesystem.Kind {
	kinds := make([]typesystem.Kind, n+1)
	for i := range kinds {
		kinds[i] = typesystem.Star
	}
	return typesystem.MakeArrow(kinds...)
}
