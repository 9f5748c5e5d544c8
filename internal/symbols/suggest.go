package symbols

import (
	"sort"

	"golang.org/x/text/cases"

	"janus/internal/source"
)

// Candidate is one "did you mean" suggestion for an unresolved name.
type Candidate struct {
	Name     string
	Symbol   SymbolID
	Distance int
}

// maxSuggestDistance bounds the edit distance a suggestion may have; beyond
// two edits suggestions read as noise.
const maxSuggestDistance = 2

// SimilarNames collects the closest visible names to want, walking the scope
// chain outward. Shadowed names are considered once, nearest declaration
// first. Matching is case-folded so `Vec` is suggested for `vec`.
func (t *Table) SimilarNames(scope ScopeID, want string, max int) []Candidate {
	if want == "" || max <= 0 {
		return nil
	}
	fold := cases.Fold()
	foldedWant := fold.String(want)

	seen := make(map[source.StringID]struct{})
	var out []Candidate
	for scope.IsValid() {
		sc := t.Scopes.Get(scope)
		if sc == nil {
			break
		}
		for name, symID := range sc.NameIndex {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			text, ok := t.Strings.Lookup(name)
			if !ok || text == want {
				continue
			}
			dist := editDistance(foldedWant, fold.String(text))
			if dist > maxSuggestDistance {
				continue
			}
			out = append(out, Candidate{Name: text, Symbol: symID, Distance: dist})
		}
		scope = sc.Parent
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// Confidence maps an edit distance into the diagnostic suggestion scale.
func (c Candidate) Confidence() float64 {
	switch c.Distance {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	default:
		return 0.1
	}
}

// editDistance is plain Levenshtein over bytes with two rolling rows. Names
// are short identifiers; no need for anything fancier.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
