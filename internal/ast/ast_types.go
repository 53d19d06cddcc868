package ast

import "github.com/funvibe/fxeir/internal/span"

// Pattern is the base interface for every node in a surface match pattern.
// The shapes below mirror a general pattern-matching surface language's
// pattern hierarchy (wildcard, bind, literal, tuple, list, map/record),
// plus a binary segment form for Erlang-style bit-syntax matches that a
// general-purpose host language's own pattern surface does not need.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern: _
type WildcardPattern struct {
	SourceSpan span.Span
}

func (p *WildcardPattern) Span() span.Span { return p.SourceSpan }
func (p *WildcardPattern) patternNode()    {}

// BindPattern: a bare variable name, binding whatever it matches.
type BindPattern struct {
	SourceSpan span.Span
	Ident      Identifier
}

func (p *BindPattern) Span() span.Span { return p.SourceSpan }
func (p *BindPattern) patternNode()    {}

// LiteralPattern: 1, true, "atom"
type LiteralPattern struct {
	SourceSpan span.Span
	Value      interface{}
}

func (p *LiteralPattern) Span() span.Span { return p.SourceSpan }
func (p *LiteralPattern) patternNode()    {}

// PinPattern: ^Var — matches only if the value equals the already-bound
// variable Var (Elixir-style pin). Lowers to an anonymous bind (never
// added to scope) constrained by an EqValue guard against the existing
// binding.
type PinPattern struct {
	SourceSpan span.Span
	Name       string
}

func (p *PinPattern) Span() span.Span { return p.SourceSpan }
func (p *PinPattern) patternNode()    {}

// TuplePattern: {a, b, _}
type TuplePattern struct {
	SourceSpan span.Span
	Elements   []Pattern
}

func (p *TuplePattern) Span() span.Span { return p.SourceSpan }
func (p *TuplePattern) patternNode()    {}

// ListPattern: [], [H|T], [a, b, ...Rest]. Rest is nil for a proper list
// pattern with no open tail.
type ListPattern struct {
	SourceSpan span.Span
	Elements   []Pattern
	Rest       Pattern
}

func (p *ListPattern) Span() span.Span { return p.SourceSpan }
func (p *ListPattern) patternNode()    {}

// MapPattern: #{key => pattern, ...} — only the listed keys are matched;
// extra keys in the value are ignored.
type MapPattern struct {
	SourceSpan span.Span
	Fields     map[string]Pattern
}

func (p *MapPattern) Span() span.Span { return p.SourceSpan }
func (p *MapPattern) patternNode()    {}

// SegmentType enumerates the bit-syntax segment element kinds.
type SegmentType int

const (
	SegInteger SegmentType = iota
	SegFloat
	SegBinary
	SegBitstring
	SegUTF8
	SegUTF16
	SegUTF32
)

// Endianness enumerates the bit-syntax byte order qualifiers.
type Endianness int

const (
	EndianBig Endianness = iota
	EndianLittle
	EndianNative
)

// BinarySegmentPattern is one `Value:Size/Type-Endian-Signed` segment of a
// bit-syntax pattern, e.g. the `Len:8` and `Rest/binary` segments of
// `<<Len:8, Rest/binary>>`.
type BinarySegmentPattern struct {
	SourceSpan span.Span
	Value      Pattern    // typically a BindPattern, WildcardPattern, or LiteralPattern
	Size       Expression // nil selects the type's default size
	Unit       int        // 0 selects the type's default unit
	Type       SegmentType
	Endian     Endianness
	Signed     bool
}

// BinaryPattern: <<Seg, Seg, ...>> — a bit-syntax match.
type BinaryPattern struct {
	SourceSpan span.Span
	Segments   []BinarySegmentPattern
}

func (p *BinaryPattern) Span() span.Span { return p.SourceSpan }
func (p *BinaryPattern) patternNode()    {}
