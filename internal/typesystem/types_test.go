package typesystem

import (
	"testing"

	"github.com/funvibe/typedemand/internal/config"
)

func TestTypeStrings(t *testing.T) {
	row := TVar{Name: "r"}
	tests := []struct {
		typ  Type
		want string
	}{
		{listOf(tInt), "List<Int>"},
		{TTuple{Elements: []Type{tInt, tBool}}, "(Int, Bool)"},
		{TFunc{Params: []Type{tInt}, ReturnType: tBool}, "(Int) -> Bool"},
		{TFunc{Params: []Type{tString}, ReturnType: tNil, IsVariadic: true}, "(...String) -> Nil"},
		{TRecord{Fields: map[string]Type{"y": tBool, "x": tInt}}, "{ x: Int, y: Bool }"},
		{TRecord{Fields: map[string]Type{"x": tInt}, Row: row}, "{ x: Int | r }"},
		{TRef{Region: "a", Mutable: true, Elem: tInt}, "&'a mut Int"},
		{TRef{Elem: tString}, "&String"},
		{NormalizeUnion([]Type{tString, tInt}), "Int | String"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTestModeVariableNames(t *testing.T) {
	old := config.IsTestMode
	config.IsTestMode = true
	defer func() { config.IsTestMode = old }()

	if got := (TVar{Name: "$t42"}).String(); got != "$t?" {
		t.Errorf("fresh variable = %q, want $t?", got)
	}
	if got := (TVar{Name: "t42"}).String(); got != "t42" {
		t.Errorf("suite variable = %q, want t42", got)
	}
	if got := (TVar{Name: "elem"}).String(); got != "elem" {
		t.Errorf("named variable = %q, want elem", got)
	}
}

func TestNormalizeUnion(t *testing.T) {
	nested := NormalizeUnion([]Type{tNil, NormalizeUnion([]Type{tInt, tNil}), tInt})
	u, ok := nested.(TUnion)
	if !ok || len(u.Types) != 2 {
		t.Fatalf("got %s, want Int | Nil", nested)
	}
	if single := NormalizeUnion([]Type{tInt, tInt}); single != Type(tInt) {
		t.Errorf("single-member union should collapse, got %s", single)
	}
}

func TestApply(t *testing.T) {
	a := TVar{Name: "a"}
	r := TVar{Name: "r"}
	s := Subst{
		"a": tInt,
		"r": TRecord{Fields: map[string]Type{"y": tBool}},
	}

	rec := TRecord{Fields: map[string]Type{"x": a}, Row: r}.Apply(s).(TRecord)
	if rec.Row != nil || len(rec.Fields) != 2 {
		t.Errorf("closed row should merge into fields, got %s", rec)
	}

	ref := TRef{Region: "b", Mutable: true, Elem: a}.Apply(s)
	if ref.String() != "&'b mut Int" {
		t.Errorf("got %s", ref)
	}

	// a -> List<a> must not loop
	cyclic := Subst{"a": listOf(a)}
	if got := a.Apply(cyclic).String(); got != "List<a>" {
		t.Errorf("cyclic apply = %s", got)
	}

	// Union collapses once its members coincide
	if got := NormalizeUnion([]Type{a, tInt}).Apply(s); got != Type(tInt) {
		t.Errorf("got %s, want Int", got)
	}
}

func TestCompose(t *testing.T) {
	a, b := TVar{Name: "a"}, TVar{Name: "b"}
	s1 := Subst{"a": listOf(b)}
	s2 := Subst{"b": tInt}
	composed := s1.Compose(s2)
	if got := a.Apply(composed).String(); got != "List<Int>" {
		t.Errorf("a = %s, want List<Int>", got)
	}
	if got := b.Apply(composed).String(); got != "Int" {
		t.Errorf("b = %s, want Int", got)
	}
}

func TestFreeTypeVariables(t *testing.T) {
	a, b := TVar{Name: "a"}, TVar{Name: "b"}
	fn := TFunc{Params: []Type{a, b, a}, ReturnType: TRef{Elem: b}}
	vars := fn.FreeTypeVariables()
	if len(vars) != 2 || vars[0].Name != "a" || vars[1].Name != "b" {
		t.Errorf("got %v, want [a b]", vars)
	}
}

func TestErrorType(t *testing.T) {
	if !IsError(ErrorType()) {
		t.Error("ErrorType should be recognized")
	}
	if IsError(tInt) {
		t.Error("Int is not the error type")
	}
	if !ErrorType().Kind().Equal(MakeArrow(Star, Star)) {
		t.Error("the error type stands in for constructors too")
	}
}
