package demand_test

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/typedemand/internal/demand"
	"github.com/funvibe/typedemand/internal/typesystem"
)

func TestSuppress(t *testing.T) {
	s, _ := failing()
	sink := &fakeSink{}
	demand.New(sink).SupTypeWithHandler(s, span, false, tInt, tString, demand.Suppress)
	if len(sink.reported) != 0 {
		t.Errorf("suppressed mismatch was reported")
	}
	if len(s.calls) != 1 {
		t.Errorf("engine called %d times", len(s.calls))
	}
}

func TestProbe(t *testing.T) {
	s, cause := failing()
	c := demand.New(&fakeSink{})
	var probe demand.Probe

	c.SupTypeWithHandler(s, span, false, tInt, tString, &probe)
	if !probe.Failed || probe.Last.Cause != cause {
		t.Fatalf("probe = %+v", probe)
	}

	probe.Reset()
	s.err = nil
	c.SupTypeWithHandler(s, span, false, tInt, tInt, &probe)
	if probe.Failed {
		t.Error("probe reports a failure after a successful demand")
	}
}

func TestTransformCause(t *testing.T) {
	s, cause := failing()
	sink := &fakeSink{}
	h := demand.TransformCause(demand.WithContext("argument 2"), demand.DefaultHandler(sink))

	demand.New(sink).SupTypeWithHandler(s, span, false, tInt, tString, h)

	if len(sink.reported) != 1 {
		t.Fatalf("got %d reports", len(sink.reported))
	}
	got := sink.reported[0].Cause
	if len(got.Context) != 1 || got.Context[0] != "argument 2" {
		t.Errorf("context = %q", got.Context)
	}
	if len(cause.Context) != 0 {
		t.Errorf("the engine's cause was modified: %q", cause.Context)
	}
	if want := "in argument 2: kind mismatch: expected Int, found String"; got.Error() != want {
		t.Errorf("cause = %q, want %q", got.Error(), want)
	}
}

func TestRecorderFlushesInOrder(t *testing.T) {
	s, _ := failing()
	c := demand.New(&fakeSink{})
	var rec demand.Recorder

	actuals := []typesystem.Type{tString, tBool, tInt32}
	for _, a := range actuals {
		c.SupTypeWithHandler(s, span, false, tInt, a, &rec)
	}
	if rec.Len() != 3 {
		t.Fatalf("Len() = %d", rec.Len())
	}

	sink := &fakeSink{}
	if n := rec.Flush(sink); n != 3 {
		t.Errorf("Flush() = %d", n)
	}
	for i, m := range sink.reported {
		if m.Actual != actuals[i] {
			t.Errorf("report %d has actual %s, want %s", i, m.Actual, actuals[i])
		}
	}
	if rec.Len() != 0 || rec.Flush(sink) != 0 {
		t.Error("flush must empty the batch")
	}
	if len(sink.reported) != 3 {
		t.Errorf("mismatches were reported %d times", len(sink.reported))
	}
}

func TestRecorderDiscard(t *testing.T) {
	var rec demand.Recorder
	rec.HandleMismatch(demand.Mismatch{Expected: tInt, Actual: tString})
	if got := rec.Mismatches(); len(got) != 1 {
		t.Fatalf("Mismatches() = %v", got)
	}
	rec.Discard()
	if rec.Len() != 0 {
		t.Error("Discard left mismatches behind")
	}
}

func TestRecorderIsSafeForConcurrentSessions(t *testing.T) {
	var rec demand.Recorder
	c := demand.New(&fakeSink{})

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			// One session per goroutine; only the recorder is shared.
			s, _ := failing()
			c.SupTypeWithHandler(s, span, false, tInt, typesystem.TCon{Name: fmt.Sprintf("T%d", i)}, &rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 16 {
		t.Errorf("recorded %d mismatches, want 16", rec.Len())
	}
}
