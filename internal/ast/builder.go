package ast

import (
	"fmt"

	"fortio.org/safecast"

	"janus/internal/source"
)

// Builder constructs a Unit bottom-up: tokens first, then nodes whose
// children already exist. The front end and the unit decoder both go through
// it; tests use the sugar in testbuild.go.
type Builder struct {
	unit    Unit
	strings *source.Interner
}

// NewBuilder starts a unit for the given file. The interner is shared with
// the surrounding session so symbol names compare by StringID.
func NewBuilder(id UnitID, file source.FileID, strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	b := &Builder{strings: strings}
	b.unit.ID = id
	b.unit.File = file
	b.unit.nodes = make([]Node, 1, 64)      // index 0 is the sentinel
	b.unit.children = make([]NodeID, 0, 64) // spine has no sentinel
	b.unit.tokens = make([]Token, 1, 64)
	return b
}

// Strings exposes the interner backing this unit's token text.
func (b *Builder) Strings() *source.Interner { return b.strings }

// AddToken appends a token and returns its ID.
func (b *Builder) AddToken(kind TokenKind, text string, span source.Span) TokenID {
	lenTokens, err := safecast.Conv[uint32](len(b.unit.tokens))
	if err != nil {
		panic(fmt.Errorf("token arena overflow: %w", err))
	}
	id := TokenID(lenTokens)
	var textID source.StringID
	if text != "" {
		textID = b.strings.Intern(text)
	}
	b.unit.tokens = append(b.unit.tokens, Token{Kind: kind, Text: textID, Span: span})
	return id
}

// AddNode appends a node whose children are already allocated. A zero child
// ID is kept as an explicit "absent" slot (optional annotation, else branch).
func (b *Builder) AddNode(kind NodeKind, flags NodeFlags, tok, first, last TokenID, children ...NodeID) NodeID {
	lenNodes, err := safecast.Conv[uint32](len(b.unit.nodes))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	id := NodeID(lenNodes)
	start := uint32(len(b.unit.children))
	b.unit.children = append(b.unit.children, children...)
	end := uint32(len(b.unit.children))
	b.unit.nodes = append(b.unit.nodes, Node{
		Kind:       kind,
		Flags:      flags,
		Token:      tok,
		FirstToken: first,
		LastToken:  last,
		ChildStart: start,
		ChildEnd:   end,
	})
	return id
}

// Finish seals the unit with its root node.
func (b *Builder) Finish(root NodeID) *Unit {
	b.unit.Root = root
	u := b.unit
	return &u
}
