package symbols

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/typedemand/internal/config"
)

// RegisterOutlives declares that region longer outlives region shorter.
func (s *SymbolTable) RegisterOutlives(longer, shorter string) {
	edges, ok := s.outlives[longer]
	if !ok {
		edges = set.New[string](1)
		s.outlives[longer] = edges
	}
	edges.Insert(shorter)
}

// Outlives reports whether a reference valid for longer is also valid for
// shorter. The relation is reflexive, transitive over declared edges, and
// 'static outlives every region.
func (s *SymbolTable) Outlives(longer, shorter string) bool {
	if longer == shorter || longer == config.StaticRegion {
		return true
	}
	seen := set.From([]string{longer})
	queue := []string{longer}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, next := range s.outlivedBy(r) {
			if next == shorter {
				return true
			}
			if seen.Insert(next) {
				queue = append(queue, next)
			}
		}
	}
	return false
}

// outlivedBy returns the regions r directly outlives in any enclosing scope.
func (s *SymbolTable) outlivedBy(r string) []string {
	var result []string
	for st := s; st != nil; st = st.outer {
		if edges, ok := st.outlives[r]; ok {
			result = append(result, edges.Slice()...)
		}
	}
	return result
}
