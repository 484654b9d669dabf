package analyzer

import (
	"testing"

	"github.com/funvibe/typedemand/internal/typesystem"
)

func TestUnifyAssignable(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		ok       bool
		wantKind typesystem.CauseKind
	}{
		{"subtype", "Int", "Int | Nil", true, 0},
		{"widening", "Int32", "Int64", true, 0},
		{"widening_to_float", "Int", "Float", true, 0},
		{"no_narrowing", "Int64", "Int32", false, typesystem.CauseKindMismatch},
		{"widening_through_alias", "Small", "Int", true, 0},
		{"widening_into_union", "Int32", "Int64 | String", true, 0},
		{"no_narrowing_into_union", "Int64", "Int32 | String", false, typesystem.CauseUnionMember},
		{"ptr_unsizing", "Ptr<Int>", "Ptr<Show>", true, 0},
		{"ptr_unsizing_unsatisfied", "Ptr<String>", "Ptr<Show>", false, typesystem.CauseUnsatisfiedBound},
		{"ref_unsizing", "&'a Int", "&'b Show", true, 0},
		{"ref_unsizing_from_mut", "&mut Int", "&Show", true, 0},
		{"ref_unsizing_unsatisfied", "&Bool", "&Show", false, typesystem.CauseUnsatisfiedBound},
		{"shared_to_mut", "&Int", "&mut Show", false, typesystem.CauseMutabilityMismatch},
		{"mut_to_shared", "&'a mut Int", "&'b Int", true, 0},
		{"mut_to_shared_short_region", "&'b mut Int", "&'a Int", false, typesystem.CauseRegionMismatch},
		{"no_coercion", "String", "Bool", false, typesystem.CauseKindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTable()
			ic := NewInferenceContext(table)
			err := ic.UnifyAssignable(nil, mustType(t, table, tt.from), mustType(t, table, tt.to))
			if tt.ok {
				if err != nil {
					t.Errorf("%s -> %s: %v", tt.from, tt.to, err)
				}
				return
			}
			assertCause(t, err, tt.wantKind)
		})
	}
}

func TestUnsatisfiedBoundNamesTheTypes(t *testing.T) {
	table := newTable()
	ic := NewInferenceContext(table)
	err := ic.UnifyAssignable(nil, mustType(t, table, "Ptr<String>"), mustType(t, table, "Ptr<Show>"))
	cause := assertCause(t, err, typesystem.CauseUnsatisfiedBound)
	if cause.Expected.String() != "Ptr<Show>" || cause.Found.String() != "Ptr<String>" {
		t.Errorf("cause = %v", cause)
	}
	if cause.Detail != "String does not implement Show" {
		t.Errorf("detail = %q", cause.Detail)
	}
}

func TestCoercionCommitsBindings(t *testing.T) {
	table := newTable()
	ic := NewInferenceContext(table)

	if err := ic.UnifyAssignable(nil, mustType(t, table, "List<a>"), mustType(t, table, "List<Int>")); err != nil {
		t.Fatal(err)
	}
	if got := ic.ResolveTypeVariables(mustType(t, table, "a")).String(); got != "Int" {
		t.Errorf("a = %s, want Int", got)
	}

	if err := ic.UnifyAssignable(nil, mustType(t, table, "(b, String)"), mustType(t, table, "(Int, Int)")); err == nil {
		t.Fatal("expected a failure")
	}
	if _, bound := ic.GlobalSubst["b"]; bound {
		t.Error("a failed coercion must not bind b")
	}
}

func TestInjectionUnderStrictUnions(t *testing.T) {
	table := newTable()
	table.SetStrictMode(true)
	ic := NewInferenceContext(table)

	target := mustType(t, table, "Int | Nil")
	err := ic.UnifySubtype(false, span, mustType(t, table, "Int"), target)
	assertCause(t, err, typesystem.CauseUnionMember)

	if err := ic.UnifyAssignable(nil, mustType(t, table, "Int"), target); err != nil {
		t.Errorf("coercion injects into a union: %v", err)
	}
	if err := ic.UnifyAssignable(nil, mustType(t, table, "Bool"), target); err == nil {
		t.Error("Bool is not a member of Int | Nil")
	}
	if err := ic.UnifyAssignable(nil, mustType(t, table, "Int8"), target); err != nil {
		t.Errorf("Int8 widens into Int | Nil: %v", err)
	}
}
