package diagnostics

import (
	"sort"
	"sync"
)

// Bag collects diagnostics. It is safe for concurrent use.
type Bag struct {
	mu    sync.Mutex
	items []*DiagnosticError
}

func NewBag() *Bag {
	return &Bag{items: make([]*DiagnosticError, 0)}
}

func (b *Bag) Add(diag *DiagnosticError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, diag)
}

// AddAll adds diagnostics in order.
func (b *Bag) AddAll(diags []*DiagnosticError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, diags...)
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Bag) HasErrors() bool {
	return b.Len() > 0
}

// Diagnostics returns a copy of all diagnostics in insertion order.
func (b *Bag) Diagnostics() []*DiagnosticError {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]*DiagnosticError, len(b.items))
	copy(result, b.items)
	return result
}

// Sorted returns a copy ordered by file, line and column. Diagnostics at the
// same position keep insertion order.
func (b *Bag) Sorted() []*DiagnosticError {
	result := b.Diagnostics()
	sort.SliceStable(result, func(i, j int) bool {
		a, c := result[i], result[j]
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Token.Line != c.Token.Line {
			return a.Token.Line < c.Token.Line
		}
		return a.Token.Column < c.Token.Column
	})
	return result
}

// Count returns how many diagnostics carry code.
func (b *Bag) Count(code ErrorCode) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, d := range b.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

func (b *Bag) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make([]*DiagnosticError, 0)
}
