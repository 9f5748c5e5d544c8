package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics for one analysis session, bounded by a cap so a
// degenerate unit cannot flood memory.
type Bag struct {
	items []Diagnostic
	max   int
}

// DefaultCap bounds a bag constructed with NewBag(0).
const DefaultCap = 256

func NewBag(max int) *Bag {
	if max <= 0 {
		max = DefaultCap
	}
	return &Bag{
		items: make([]Diagnostic, 0, 16),
		max:   max,
	}
}

// Add appends d unless the cap is reached. Returns false when dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether at least one diagnostic is SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// ErrorCount counts SevError diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

// Items returns the internal slice. Callers must not modify it; use Clone for
// anything that outlives the bag.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Clone deep-copies every diagnostic into a caller-owned slice that survives
// session teardown.
func (b *Bag) Clone() []Diagnostic {
	out := make([]Diagnostic, 0, len(b.items))
	for i := range b.items {
		out = append(out, b.items[i].Clone())
	}
	return out
}

// Merge appends everything from other, growing the cap if necessary.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, start, end, severity (desc), code for deterministic
// output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops exact repeats keyed by code + primary span.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
