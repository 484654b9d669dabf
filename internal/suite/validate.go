package suite

import (
	"errors"
	"fmt"
	"unicode"
)

func (f *File) validate() error {
	var errs []error
	fail := func(line int, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if line > 0 {
			errs = append(errs, fmt.Errorf("%s:%d: %s", f.Path, line, msg))
			return
		}
		errs = append(errs, fmt.Errorf("%s: %s", f.Path, msg))
	}

	for _, name := range f.Interfaces {
		if !isTypeName(name) {
			fail(0, "interface name %q must start with an uppercase letter", name)
		}
	}
	for _, impl := range f.Impls {
		if impl.Interface == "" || impl.Type.IsZero() {
			fail(impl.Type.Line, "impl needs both interface and type")
		}
	}
	for _, a := range f.Aliases {
		if !isTypeName(a.Name) {
			fail(a.Type.Line, "alias name %q must start with an uppercase letter", a.Name)
		}
		if a.Type.IsZero() {
			fail(a.Type.Line, "alias %s has no type", a.Name)
		}
		for _, p := range a.Params {
			if isTypeName(p) || p == "" {
				fail(a.Type.Line, "alias parameter %q must start with a lowercase letter", p)
			}
		}
	}
	for _, o := range f.Outlives {
		if o.Longer == "" || o.Shorter == "" {
			fail(0, "outlives needs both longer and shorter")
		}
	}
	for _, e := range f.Exprs {
		if e.Name == "" {
			fail(e.Type.Line, "expression without a name")
		}
	}

	for _, d := range f.Demands {
		if d.Expected.IsZero() {
			fail(d.Line, "%s demand has no expected type", d.Op)
		}
		switch d.Op {
		case OpEqType, OpSupType:
			if d.Actual.IsZero() {
				fail(d.Line, "%s demand has no actual type", d.Op)
			}
			if d.Expr != "" {
				fail(d.Line, "%s demand takes actual, not expr", d.Op)
			}
		case OpCoerce:
			if d.Expr == "" {
				fail(d.Line, "coerce demand has no expr")
			}
			if !d.Actual.IsZero() {
				fail(d.Line, "coerce demand takes expr, not actual")
			}
		default:
			fail(d.Line, "unknown op %q (want eqtype, suptype or coerce)", d.Op)
		}

		if d.Handler != "" || d.Context != "" {
			if d.Op != OpSupType {
				fail(d.Line, "handler and context only apply to suptype")
			}
		}
		switch d.Handler {
		case "", HandlerDefault, HandlerSuppress, HandlerBatch, HandlerRHS:
		default:
			fail(d.Line, "unknown handler %q (want default, suppress, batch or rhs)", d.Handler)
		}
	}

	return errors.Join(errs...)
}

func isTypeName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
