package analyzer

import (
	"fmt"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/config"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// UnifyAssignable checks that a value of exprType may be used where target is
// required. Coercions are tried in order:
//
//  1. subtyping
//  2. numeric widening (Int32 -> Int64)
//  3. unsizing Ptr<T> to Ptr<I> or &T to &I when T implements interface I
//  4. &mut T to &T
//  5. injection into a union, also under strict unions; a member may be
//     reached by subtyping or else by numeric widening (Int32 -> Int64 | String)
//
// The first coercion that applies commits its bindings. When none applies the
// subtyping failure is returned, except that a failed unsizing reports the
// missing implementation.
func (ctx *InferenceContext) UnifyAssignable(expr ast.Expression, exprType, target typesystem.Type) error {
	source := ctx.ResolveTypeVariables(exprType)
	target = ctx.ResolveTypeVariables(target)
	r := ctx.resolver()

	subst, subErr := typesystem.UnifyAllowExtraWithResolver(target, source, r)
	if subErr == nil {
		ctx.commit(subst)
		return nil
	}

	src := r.ResolveTypeAlias(source)
	dst := r.ResolveTypeAlias(target)

	if widens(src, dst) {
		return nil
	}

	if elem, iface, ok := ctx.unsizing(src, dst); ok {
		if ctx.table != nil && ctx.table.Implements(iface, elem) {
			return nil
		}
		return &typesystem.MismatchCause{
			Kind:     typesystem.CauseUnsatisfiedBound,
			Expected: target,
			Found:    source,
			Detail:   fmt.Sprintf("%s does not implement %s", elem, iface),
		}
	}

	if srcRef, ok := src.(typesystem.TRef); ok && srcRef.Mutable {
		if dstRef, ok := dst.(typesystem.TRef); ok && !dstRef.Mutable {
			shared := srcRef
			shared.Mutable = false
			subst, err := typesystem.UnifyAllowExtraWithResolver(dstRef, shared, r)
			if err != nil {
				return err
			}
			ctx.commit(subst)
			return nil
		}
	}

	if union, ok := dst.(typesystem.TUnion); ok {
		if subst, ok := injectUnion(union, src, r); ok {
			ctx.commit(subst)
			return nil
		}
	}

	return subErr
}

func widens(src, dst typesystem.Type) bool {
	from, ok := src.(typesystem.TCon)
	if !ok {
		return false
	}
	to, ok := dst.(typesystem.TCon)
	if !ok {
		return false
	}
	return config.Widens(from.Name, to.Name)
}

// unsizing matches Ptr<T> -> Ptr<I> and &T -> &I where I is an interface and
// the reference kinds are compatible. It returns T and I.
func (ctx *InferenceContext) unsizing(src, dst typesystem.Type) (typesystem.Type, string, bool) {
	if ctx.table == nil {
		return nil, "", false
	}
	switch s := src.(type) {
	case typesystem.TApp:
		d, ok := dst.(typesystem.TApp)
		if !ok || !isPtr(s) || !isPtr(d) {
			return nil, "", false
		}
		if iface, ok := ctx.interfaceName(d.Args[0]); ok {
			return s.Args[0], iface, true
		}
	case typesystem.TRef:
		d, ok := dst.(typesystem.TRef)
		if !ok || (d.Mutable && !s.Mutable) {
			return nil, "", false
		}
		if !ctx.resolver().regionOutlives(s.Region, d.Region) {
			return nil, "", false
		}
		if iface, ok := ctx.interfaceName(d.Elem); ok {
			return s.Elem, iface, true
		}
	}
	return nil, "", false
}

func (ctx *InferenceContext) interfaceName(t typesystem.Type) (string, bool) {
	tCon, ok := t.(typesystem.TCon)
	if !ok || !ctx.table.IsInterface(tCon.Name) {
		return "", false
	}
	return tCon.Name, true
}

func isPtr(t typesystem.TApp) bool {
	tCon, ok := t.Constructor.(typesystem.TCon)
	return ok && tCon.Name == config.PtrTypeName && len(t.Args) == 1
}

// injectUnion finds the first member of union that src is a subtype of, or
// failing that the first member src widens to.
func injectUnion(union typesystem.TUnion, src typesystem.Type, r typesystem.Resolver) (typesystem.Subst, bool) {
	for _, member := range union.Types {
		if subst, err := typesystem.UnifyAllowExtraWithResolver(member, src, r); err == nil {
			return subst, true
		}
	}
	for _, member := range union.Types {
		if widens(src, r.ResolveTypeAlias(member)) {
			return typesystem.Subst{}, true
		}
	}
	return nil, false
}

// regionOutlives reports whether a reference valid for actual may stand in for
// one valid for expected. An elided region fits anything.
func (w ResolverWrapper) regionOutlives(actual, expected string) bool {
	if actual == "" || expected == "" || actual == expected {
		return true
	}
	return w.Outlives(actual, expected)
}
