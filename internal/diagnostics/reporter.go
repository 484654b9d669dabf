package diagnostics

import (
	"github.com/funvibe/typedemand/internal/demand"
)

// Reporter turns failed demands into diagnostics. It is the default sink of
// a demand.Checker.
type Reporter struct {
	bag     *Bag
	session string
}

var _ demand.Sink = (*Reporter)(nil)

func NewReporter(bag *Bag) *Reporter {
	return &Reporter{bag: bag}
}

// ForSession returns a reporter that tags its diagnostics with a session ID.
func (r *Reporter) ForSession(id string) *Reporter {
	return &Reporter{bag: r.bag, session: id}
}

func (r *Reporter) Bag() *Bag {
	return r.bag
}

func (r *Reporter) ReportMismatch(m demand.Mismatch) {
	r.bag.Add(FromMismatch(m, r.session))
}

// FromMismatch renders a mismatch as a diagnostic. The message names the
// caller's expected and actual types; the engine's cause becomes a note.
func FromMismatch(m demand.Mismatch, session string) *DiagnosticError {
	d := NewError(CodeFor(m.Relation), m.Span, m.Expected, m.Actual)
	d.Session = session
	if m.Cause != nil {
		d.WithNote("%s", m.Cause.Error())
	}
	return d
}
