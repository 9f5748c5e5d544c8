// Package match implements pattern-exhaustiveness checking for match
// statements. It abstracts arm patterns away from the type system's own
// representation: the inference engine lowers AST arms into Pattern values
// and asks for a verdict.
package match

import (
	"fmt"
	"strings"

	"janus/internal/ast"
	"janus/internal/source"
)

// PatternKind discriminates the pattern variant.
type PatternKind uint8

const (
	PatInvalid PatternKind = iota
	PatWildcard
	PatLiteral
	PatBinding
	PatVariant
	PatTuple
	PatStruct
)

// LiteralKind discriminates literal patterns.
type LiteralKind uint8

const (
	LitBool LiteralKind = iota
	LitInt
	LitFloat
	LitString
)

// Pattern is one match-arm shape. Only the fields relevant to its kind are
// set.
type Pattern struct {
	Kind    PatternKind
	Lit     LiteralKind
	BoolVal bool
	IntVal  int64
	Text    string // float/string literal text, binding/variant/field name
	Subs    []Pattern
	Fields  []FieldPattern
}

// FieldPattern is one entry of a struct pattern.
type FieldPattern struct {
	Name string
	Sub  Pattern
}

// Wildcard returns the `_` pattern.
func Wildcard() Pattern { return Pattern{Kind: PatWildcard} }

// BoolLit returns a boolean literal pattern.
func BoolLit(v bool) Pattern { return Pattern{Kind: PatLiteral, Lit: LitBool, BoolVal: v} }

// IntLit returns an integer literal pattern.
func IntLit(v int64) Pattern { return Pattern{Kind: PatLiteral, Lit: LitInt, IntVal: v} }

// FloatLit returns a float literal pattern over its source text.
func FloatLit(text string) Pattern { return Pattern{Kind: PatLiteral, Lit: LitFloat, Text: text} }

// StringLit returns a string literal pattern.
func StringLit(text string) Pattern { return Pattern{Kind: PatLiteral, Lit: LitString, Text: text} }

// Binding returns a bare-identifier pattern, which matches anything.
func Binding(name string) Pattern { return Pattern{Kind: PatBinding, Text: name} }

// Variant returns an enum-variant pattern.
func Variant(name string) Pattern { return Pattern{Kind: PatVariant, Text: name} }

// Tuple returns a tuple pattern over sub-patterns.
func Tuple(subs ...Pattern) Pattern { return Pattern{Kind: PatTuple, Subs: subs} }

// Struct returns a struct pattern over field patterns.
func Struct(fields ...FieldPattern) Pattern { return Pattern{Kind: PatStruct, Fields: fields} }

// String renders the pattern the way diagnostics print it.
func (p Pattern) String() string {
	switch p.Kind {
	case PatWildcard:
		return "_"
	case PatLiteral:
		switch p.Lit {
		case LitBool:
			if p.BoolVal {
				return "true"
			}
			return "false"
		case LitInt:
			return fmt.Sprintf("%d", p.IntVal)
		case LitFloat:
			return p.Text
		case LitString:
			return fmt.Sprintf("%q", p.Text)
		}
	case PatBinding:
		return p.Text
	case PatVariant:
		return "." + p.Text
	case PatTuple:
		parts := make([]string, 0, len(p.Subs))
		for _, s := range p.Subs {
			parts = append(parts, s.String())
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case PatStruct:
		parts := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			parts = append(parts, f.Name+": "+f.Sub.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<invalid>"
}

// FromNode lowers an AST pattern node. Unknown shapes come back as
// PatInvalid; the caller treats them as non-matching and reports the AST
// problem elsewhere.
func FromNode(u *ast.Unit, names *source.Interner, id ast.NodeID) Pattern {
	n := u.Node(id)
	if n == nil {
		return Pattern{}
	}
	text := func(tok ast.TokenID) string {
		t := u.Token(tok)
		if t == nil {
			return ""
		}
		s, _ := names.Lookup(t.Text)
		return s
	}
	switch n.Kind {
	case ast.NodeWildcardPat:
		return Wildcard()
	case ast.NodeBindingPat:
		return Binding(text(n.Token))
	case ast.NodeVariantPat:
		return Variant(text(n.Token))
	case ast.NodeLiteralPat:
		lit := u.Node(u.Child(id, 0))
		if lit == nil {
			return Pattern{}
		}
		switch lit.Kind {
		case ast.NodeBoolLit:
			tok := u.Token(lit.Token)
			return BoolLit(tok != nil && tok.Kind == ast.TokTrue)
		case ast.NodeIntLit:
			var v int64
			fmt.Sscanf(text(lit.Token), "%d", &v)
			return IntLit(v)
		case ast.NodeFloatLit:
			return FloatLit(text(lit.Token))
		case ast.NodeStringLit:
			return StringLit(text(lit.Token))
		}
		return Pattern{}
	case ast.NodeTuplePat:
		subs := make([]Pattern, 0, len(u.Children(id)))
		for _, c := range u.Children(id) {
			subs = append(subs, FromNode(u, names, c))
		}
		return Tuple(subs...)
	case ast.NodeStructPat:
		fields := make([]FieldPattern, 0, len(u.Children(id)))
		for _, c := range u.Children(id) {
			fn := u.Node(c)
			if fn == nil || fn.Kind != ast.NodeFieldPat {
				continue
			}
			fields = append(fields, FieldPattern{
				Name: text(fn.Token),
				Sub:  FromNode(u, names, u.Child(c, 0)),
			})
		}
		return Struct(fields...)
	}
	return Pattern{}
}
