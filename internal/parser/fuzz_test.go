package parser_test

import (
	"testing"

	"github.com/funvibe/typedemand/internal/parser"
	"github.com/funvibe/typedemand/internal/prettyprinter"
)

// FuzzRoundTrip checks that printing is a fixpoint: whatever parses prints
// to source that parses back to a tree printing identically.
func FuzzRoundTrip(f *testing.F) {
	f.Add("Map<String, List<a>>")
	f.Add("(Int, ...String) -> Bool | Nil")
	f.Add("{ f: Int -> Bool | r }")
	f.Add("&'a mut (Int | Nil)")
	f.Add("((Int,), { x: Int, ... }) -> () -> &T")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 512 {
			return
		}
		typ, errs := parser.Parse(input)
		if typ == nil || len(errs) > 0 {
			return
		}

		printed := prettyprinter.Print(typ)
		reparsed, errs := parser.Parse(printed)
		if len(errs) > 0 {
			t.Fatalf("printed form %q of %q does not parse: %v", printed, input, errs[0])
		}
		if again := prettyprinter.Print(reparsed); again != printed {
			t.Fatalf("round trip of %q changed: %q -> %q", input, printed, again)
		}
	})
}
