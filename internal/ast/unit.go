package ast

import "janus/internal/source"

// Unit is one compilation unit in read-only form: flat node and token arenas
// plus a shared children spine. Index 0 of both arenas is a reserved
// sentinel, so IDs are 1-based and the zero value means "absent".
//
// Analysis never mutates a Unit; all derived state (types, symbols,
// diagnostics) lives in the session that walks it.
type Unit struct {
	ID       UnitID
	File     source.FileID
	Root     NodeID
	nodes    []Node
	children []NodeID
	tokens   []Token
}

// Node returns the node record, or nil for the sentinel or an out-of-range id.
func (u *Unit) Node(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(u.nodes) {
		return nil
	}
	return &u.nodes[id]
}

// Children returns the child IDs of id as a read-only view into the spine.
func (u *Unit) Children(id NodeID) []NodeID {
	n := u.Node(id)
	if n == nil || n.ChildStart >= n.ChildEnd {
		return nil
	}
	return u.children[n.ChildStart:n.ChildEnd]
}

// Child returns the i-th child of id, or NoNodeID when out of range.
func (u *Unit) Child(id NodeID, i int) NodeID {
	kids := u.Children(id)
	if i < 0 || i >= len(kids) {
		return NoNodeID
	}
	return kids[i]
}

// Token returns the token record, or nil for the sentinel or out-of-range id.
func (u *Unit) Token(id TokenID) *Token {
	if !id.IsValid() || int(id) >= len(u.tokens) {
		return nil
	}
	return &u.tokens[id]
}

// Span covers a node's full source extent from its first to last token.
func (u *Unit) Span(id NodeID) source.Span {
	n := u.Node(id)
	if n == nil {
		return source.Span{File: u.File}
	}
	first := u.Token(n.FirstToken)
	last := u.Token(n.LastToken)
	switch {
	case first == nil && last == nil:
		return source.Span{File: u.File}
	case last == nil:
		return first.Span
	case first == nil:
		return last.Span
	}
	return first.Span.Cover(last.Span)
}

// TokenSpan returns the span of a node's principal token, falling back to the
// node extent when the node carries none.
func (u *Unit) TokenSpan(id NodeID) source.Span {
	n := u.Node(id)
	if n == nil {
		return source.Span{File: u.File}
	}
	if tok := u.Token(n.Token); tok != nil {
		return tok.Span
	}
	return u.Span(id)
}

// NumNodes reports allocated nodes excluding the sentinel.
func (u *Unit) NumNodes() int {
	if len(u.nodes) == 0 {
		return 0
	}
	return len(u.nodes) - 1
}

// NumTokens reports allocated tokens excluding the sentinel.
func (u *Unit) NumTokens() int {
	if len(u.tokens) == 0 {
		return 0
	}
	return len(u.tokens) - 1
}
