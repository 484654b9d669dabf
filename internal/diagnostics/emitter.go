package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiCyan  = "\x1b[36m"
)

// Color modes accepted by NewEmitter.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Emitter writes diagnostics in a compiler-style text format.
type Emitter struct {
	w     io.Writer
	color bool
}

// NewEmitter creates an emitter. In auto mode colour is used only when w is a
// terminal and NO_COLOR is unset.
func NewEmitter(w io.Writer, mode string) *Emitter {
	return &Emitter{w: w, color: useColor(w, mode)}
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func (e *Emitter) paint(code, s string) string {
	if !e.color {
		return s
	}
	return code + s + ansiReset
}

// Emit writes one diagnostic:
//
//	suite.demand.yaml:12:3: error[T002]: mismatched types: ...
//	  note: kind mismatch: expected Int32, found String
func (e *Emitter) Emit(d *DiagnosticError) {
	pos := d.Token
	if pos.File == "" {
		pos.File = d.File
	}
	fmt.Fprintf(e.w, "%s: %s %s\n",
		e.paint(ansiBold, pos.Position()),
		e.paint(ansiRed, "error["+string(d.Code)+"]:"),
		d.Message())
	for _, note := range d.Notes {
		fmt.Fprintf(e.w, "  %s %s\n", e.paint(ansiCyan, "note:"), note)
	}
}

// EmitAll writes every diagnostic and a summary line when there were any.
func (e *Emitter) EmitAll(diags []*DiagnosticError) {
	for _, d := range diags {
		e.Emit(d)
	}
	if len(diags) > 0 {
		fmt.Fprintln(e.w, e.paint(ansiRed, fmt.Sprintf("%d error(s)", len(diags))))
	}
}
