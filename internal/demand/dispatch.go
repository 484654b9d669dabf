package demand

import (
	"sync"

	"github.com/funvibe/typedemand/internal/typesystem"
)

// Handler consumes the Mismatch of one failed demand. It is called at most
// once per demand.
type Handler interface {
	HandleMismatch(m Mismatch)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(m Mismatch)

func (f HandlerFunc) HandleMismatch(m Mismatch) { f(m) }

// DefaultHandler forwards the mismatch unchanged to sink.
func DefaultHandler(sink Sink) Handler {
	return HandlerFunc(func(m Mismatch) {
		sink.ReportMismatch(m)
	})
}

// Suppress drops the mismatch. Use it for speculative checks whose failure
// is not an error.
var Suppress Handler = HandlerFunc(func(Mismatch) {})

// Probe remembers whether the demand it was passed to failed.
// A Probe belongs to a single goroutine.
type Probe struct {
	Failed bool
	Last   Mismatch
}

func (p *Probe) HandleMismatch(m Mismatch) {
	p.Failed = true
	p.Last = m
}

// Reset clears the probe so it can be passed to another demand.
func (p *Probe) Reset() {
	*p = Probe{}
}

// TransformCause rewrites the cause before handing the mismatch to next.
// fn must return a new cause rather than modify the one it is given.
func TransformCause(fn func(*typesystem.MismatchCause) *typesystem.MismatchCause, next Handler) Handler {
	return HandlerFunc(func(m Mismatch) {
		m.Cause = fn(m.Cause)
		next.HandleMismatch(m)
	})
}

// WithContext returns a cause transformer that nests the cause under ctx,
// e.g. "argument 2".
func WithContext(ctx string) func(*typesystem.MismatchCause) *typesystem.MismatchCause {
	return func(c *typesystem.MismatchCause) *typesystem.MismatchCause {
		return c.Within(ctx)
	}
}

// Recorder collects mismatches for batched reporting.
type Recorder struct {
	mu    sync.Mutex
	batch []Mismatch
}

func (r *Recorder) HandleMismatch(m Mismatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batch = append(r.batch, m)
}

// Len returns the number of pending mismatches.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batch)
}

// Mismatches returns a copy of the pending mismatches.
func (r *Recorder) Mismatches() []Mismatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Mismatch, len(r.batch))
	copy(result, r.batch)
	return result
}

// Flush reports each pending mismatch to sink once, in recording order, and
// empties the batch. It returns the number reported.
func (r *Recorder) Flush(sink Sink) int {
	r.mu.Lock()
	batch := r.batch
	r.batch = nil
	r.mu.Unlock()

	for _, m := range batch {
		sink.ReportMismatch(m)
	}
	return len(batch)
}

// Discard empties the batch without reporting.
func (r *Recorder) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batch = nil
}
