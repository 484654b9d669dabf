package pipeline

import (
	"testing"

	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/token"
)

func TestDiagnosticsLeaveSessionBagUntouched(t *testing.T) {
	ctx := NewPipelineContext("")
	ctx.FilePath = "a.demand.yaml"

	reported := diagnostics.NewError(diagnostics.ErrT001, token.At("", 4, 5), "Int", "String")
	ctx.Bag.Add(reported)
	stage := diagnostics.NewError(diagnostics.ErrA001, token.At("", 2, 5), "x")
	ctx.Errors = append(ctx.Errors, stage)

	got := ctx.Diagnostics()
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(got))
	}
	for _, d := range got {
		if d.File != "a.demand.yaml" {
			t.Errorf("%s: file = %q", d.Code, d.File)
		}
	}
	if got[0].Code != diagnostics.ErrA001 || got[1].Code != diagnostics.ErrT001 {
		t.Errorf("order = %s, %s", got[0].Code, got[1].Code)
	}

	if reported.File != "" || stage.File != "" {
		t.Errorf("originals modified: %q, %q", reported.File, stage.File)
	}
	if again := ctx.Diagnostics(); again[1].File != "a.demand.yaml" {
		t.Errorf("second read: file = %q", again[1].File)
	}
}
