package ast

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"janus/internal/source"
)

// The front end serializes parsed units into a msgpack container; this core
// only decodes them (encoding is kept for round-trip tests and tooling).
// String IDs inside a container are file-local and get re-interned into the
// session interner on decode.

const unitFileVersion = 1

type fileToken struct {
	Kind  uint8  `msgpack:"k"`
	Text  uint32 `msgpack:"t"`
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

type fileNode struct {
	Kind       uint8  `msgpack:"k"`
	Flags      uint8  `msgpack:"f"`
	Token      uint32 `msgpack:"t"`
	FirstToken uint32 `msgpack:"ft"`
	LastToken  uint32 `msgpack:"lt"`
	ChildStart uint32 `msgpack:"cs"`
	ChildEnd   uint32 `msgpack:"ce"`
}

type unitFile struct {
	Version  int        `msgpack:"version"`
	Path     string     `msgpack:"path"`
	Content  []byte     `msgpack:"content"`
	Strings  []string   `msgpack:"strings"`
	Tokens   []fileToken `msgpack:"tokens"`
	Nodes    []fileNode  `msgpack:"nodes"`
	Children []uint32    `msgpack:"children"`
	Root     uint32      `msgpack:"root"`
}

// EncodeUnit writes the unit in container form. strings must be the interner
// the unit was built against.
func EncodeUnit(w io.Writer, u *Unit, f *source.File, strings *source.Interner) error {
	uf := unitFile{
		Version: unitFileVersion,
		Root:    uint32(u.Root),
	}
	if f != nil {
		uf.Path = f.Path
		uf.Content = f.Content
	}
	uf.Strings = strings.Snapshot()
	uf.Tokens = make([]fileToken, 0, len(u.tokens))
	for _, t := range u.tokens {
		uf.Tokens = append(uf.Tokens, fileToken{
			Kind:  uint8(t.Kind),
			Text:  uint32(t.Text),
			Start: t.Span.Start,
			End:   t.Span.End,
		})
	}
	uf.Nodes = make([]fileNode, 0, len(u.nodes))
	for _, n := range u.nodes {
		uf.Nodes = append(uf.Nodes, fileNode{
			Kind:       uint8(n.Kind),
			Flags:      uint8(n.Flags),
			Token:      uint32(n.Token),
			FirstToken: uint32(n.FirstToken),
			LastToken:  uint32(n.LastToken),
			ChildStart: n.ChildStart,
			ChildEnd:   n.ChildEnd,
		})
	}
	uf.Children = make([]uint32, 0, len(u.children))
	for _, c := range u.children {
		uf.Children = append(uf.Children, uint32(c))
	}
	return msgpack.NewEncoder(w).Encode(&uf)
}

// DecodeUnit reads a container, registers its file in fs and re-interns its
// strings so the unit plugs into an existing session.
func DecodeUnit(r io.Reader, id UnitID, fs *source.FileSet, strings *source.Interner) (*Unit, error) {
	var uf unitFile
	if err := msgpack.NewDecoder(r).Decode(&uf); err != nil {
		return nil, fmt.Errorf("decode unit: %w", err)
	}
	if uf.Version != unitFileVersion {
		return nil, fmt.Errorf("unit container version %d, want %d", uf.Version, unitFileVersion)
	}
	if len(uf.Nodes) == 0 {
		return nil, fmt.Errorf("unit container has no nodes")
	}

	fileID := fs.AddVirtual(uf.Path, uf.Content)

	// Remap file-local string IDs into the session interner.
	remap := make([]source.StringID, len(uf.Strings))
	for i, s := range uf.Strings {
		remap[i] = strings.Intern(s)
	}
	mapString := func(old uint32) (source.StringID, error) {
		if int(old) >= len(remap) {
			return source.NoStringID, fmt.Errorf("string id %d out of range", old)
		}
		return remap[old], nil
	}

	u := &Unit{
		ID:       id,
		File:     fileID,
		Root:     NodeID(uf.Root),
		nodes:    make([]Node, 0, len(uf.Nodes)),
		children: make([]NodeID, 0, len(uf.Children)),
		tokens:   make([]Token, 0, len(uf.Tokens)),
	}
	for _, t := range uf.Tokens {
		text, err := mapString(t.Text)
		if err != nil {
			return nil, err
		}
		u.tokens = append(u.tokens, Token{
			Kind: TokenKind(t.Kind),
			Text: text,
			Span: source.Span{File: fileID, Start: t.Start, End: t.End},
		})
	}
	for _, n := range uf.Nodes {
		u.nodes = append(u.nodes, Node{
			Kind:       NodeKind(n.Kind),
			Flags:      NodeFlags(n.Flags),
			Token:      TokenID(n.Token),
			FirstToken: TokenID(n.FirstToken),
			LastToken:  TokenID(n.LastToken),
			ChildStart: n.ChildStart,
			ChildEnd:   n.ChildEnd,
		})
	}
	for _, c := range uf.Children {
		u.children = append(u.children, NodeID(c))
	}
	if u.Node(u.Root) == nil {
		return nil, fmt.Errorf("unit container root %d out of range", uf.Root)
	}
	return u, nil
}
