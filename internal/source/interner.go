package source

import "slices"

// StringID is a handle into the string interner.
type StringID uint32

// NoStringID maps to the empty string.
const NoStringID StringID = 0

// Interner deduplicates strings and hands out stable IDs. ID 0 is reserved
// for the empty string so zero-valued StringIDs stay harmless.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID for s, registering it on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	// Own copy, detached from whatever buffer the caller sliced it from.
	cpy := string([]byte(s))
	id := StringID(len(in.byID))
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// InternBytes interns the byte content as a string.
func (in *Interner) InternBytes(b []byte) StringID {
	return in.Intern(string(b))
}

// Lookup returns the string for id, or ("", false) for an unknown id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if !in.Has(id) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup panics on an unknown id.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid StringID")
	}
	return s
}

func (in *Interner) Has(id StringID) bool {
	return int(id) < len(in.byID)
}

// Len counts interned strings including the reserved empty string.
func (in *Interner) Len() int {
	return len(in.byID)
}

// Snapshot returns a copy of all interned strings indexed by ID.
func (in *Interner) Snapshot() []string {
	return slices.Clone(in.byID)
}
