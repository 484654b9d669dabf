package typesystem

import (
	"testing"
)

func TestKinds(t *testing.T) {
	if Star.String() != "*" {
		t.Errorf("KStar.String() = %s, want *", Star.String())
	}

	arrow := MakeArrow(Star, Star)
	if arrow.String() != "(* -> *)" {
		t.Errorf("Arrow string = %s, want (* -> *)", arrow.String())
	}
	if !arrow.Equal(KArrow{Left: Star, Right: Star}) {
		t.Errorf("Arrows should be equal")
	}
	if arrow.Equal(Star) {
		t.Errorf("Arrow should not equal Star")
	}

	// The wildcard carried by the error type matches everything
	for _, k := range []Kind{Star, arrow} {
		if !k.Equal(AnyKind) || !AnyKind.Equal(k) {
			t.Errorf("%s should match the wildcard kind", k)
		}
	}
}

func TestTypeKinds(t *testing.T) {
	intType := TCon{Name: "Int", KindVal: Star}
	listCon := TCon{Name: "List"}
	mapCon := TCon{Name: "Map"}
	tVarM := TVar{Name: "m", KindVal: MakeArrow(Star, Star)}

	tests := []struct {
		name     string
		typ      Type
		wantKind Kind
	}{
		{"Int", intType, Star},
		{"builtin List constructor", listCon, MakeArrow(Star, Star)},
		{"plain variable", TVar{Name: "a"}, Star},
		{"higher-kinded variable", tVarM, MakeArrow(Star, Star)},
		{"List<Int>", TApp{Constructor: listCon, Args: []Type{intType}}, Star},
		{"Map<Int> partial", TApp{Constructor: mapCon, Args: []Type{intType}}, MakeArrow(Star, Star)},
		{"Map<Int, String>", TApp{Constructor: mapCon, Args: []Type{intType, TCon{Name: "String"}}}, Star},
		{"tuple", TTuple{Elements: []Type{intType, intType}}, Star},
		{"function", TFunc{Params: []Type{intType}, ReturnType: intType}, Star},
		{"reference", TRef{Region: "a", Elem: intType}, Star},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.typ.Kind()
			if !got.Equal(tt.wantKind) {
				t.Errorf("Kind() = %s, want %s", got, tt.wantKind)
			}
		})
	}
}

func TestKindCheck(t *testing.T) {
	intType := TCon{Name: "Int"}
	listCon := TCon{Name: "List"}

	if _, err := KindCheck(TRef{Elem: listCon}); err == nil {
		t.Error("reference to an unapplied constructor should be ill-kinded")
	}
	if _, err := KindCheck(TApp{Constructor: intType, Args: []Type{intType}}); err == nil {
		t.Error("applying Int to an argument should be ill-kinded")
	}
	if _, err := KindCheck(TApp{Constructor: listCon, Args: []Type{listCon}}); err == nil {
		t.Error("List<List> should be ill-kinded")
	}
	k, err := KindCheck(TRecord{Fields: map[string]Type{"xs": TApp{Constructor: listCon, Args: []Type{intType}}}})
	if err != nil || !k.Equal(Star) {
		t.Errorf("record kind = %v, %v; want *", k, err)
	}
}

func TestKindUnification(t *testing.T) {
	intType := TCon{Name: "Int", KindVal: Star}
	listCon := TCon{Name: "List", KindVal: MakeArrow(Star, Star)}
	mVar := TVar{Name: "m", KindVal: MakeArrow(Star, Star)}
	aVar := TVar{Name: "a", KindVal: Star}

	tests := []struct {
		name    string
		t1      Type
		t2      Type
		wantErr bool
	}{
		{"m (*->*) ~ Int (*)", mVar, intType, true},
		{"Int (*) ~ m (*->*)", intType, mVar, true},
		{"m (*->*) ~ List (*->*)", mVar, listCon, false},
		{
			name:    "m<a> ~ List<Int>",
			t1:      TApp{Constructor: mVar, Args: []Type{aVar}},
			t2:      TApp{Constructor: listCon, Args: []Type{intType}},
			wantErr: false,
		},
		{
			// m = Map<Int>, a = Bool
			name: "m<a> ~ Map<Int, Bool>",
			t1:   TApp{Constructor: mVar, Args: []Type{aVar}},
			t2: TApp{
				Constructor: TCon{Name: "Map", KindVal: MakeArrow(Star, Star, Star)},
				Args:        []Type{intType, TCon{Name: "Bool"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unify(tt.t1, tt.t2)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && AsCause(err).Kind != CauseHigherKindMismatch {
				t.Errorf("cause = %s, want %s", AsCause(err).Kind, CauseHigherKindMismatch)
			}
		})
	}
}
