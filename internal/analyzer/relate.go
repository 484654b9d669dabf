package analyzer

import (
	"github.com/funvibe/typedemand/internal/token"
	"github.com/funvibe/typedemand/internal/typesystem"
)

func (ctx *InferenceContext) resolver() ResolverWrapper {
	return ResolverWrapper{Table: ctx.table}
}

// UnifyEqual makes a and b the same type. b is the expected side of the
// returned cause.
func (ctx *InferenceContext) UnifyEqual(span token.Token, a, b typesystem.Type) error {
	expected := ctx.ResolveTypeVariables(b)
	actual := ctx.ResolveTypeVariables(a)
	subst, err := typesystem.UnifyWithResolver(expected, actual, ctx.resolver())
	if err != nil {
		return err
	}
	ctx.commit(subst)
	return nil
}

// UnifySubtype checks sub <: sup. The cause names sup as expected unless
// expectedIsRHS, in which case the two sides are reported the other way round.
func (ctx *InferenceContext) UnifySubtype(expectedIsRHS bool, span token.Token, sub, sup typesystem.Type) error {
	subst, err := typesystem.UnifyAllowExtraWithResolver(
		ctx.ResolveTypeVariables(sup),
		ctx.ResolveTypeVariables(sub),
		ctx.resolver(),
	)
	if err != nil {
		if expectedIsRHS {
			return typesystem.AsCause(err).Swap()
		}
		return err
	}
	ctx.commit(subst)
	return nil
}
