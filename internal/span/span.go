// Package span provides the opaque source-location triple consumed at the
// edges of the IR: every AST node and diagnostic label carries one, but
// this module never interprets the byte offsets itself — that is the
// surface lexer/parser's job.
package span

// Span is a (start, end, source) byte-offset triple into some source file
// identified by SourceID. It carries no text; resolving it to line/column
// or a source snippet is a collaborator's responsibility.
type Span struct {
	Start    int
	End      int
	SourceID uint32
}

// Unknown is the sentinel span used when no real source location is
// available (synthetic nodes created during lowering, e.g. pseudo-binds).
var Unknown = Span{Start: -1, End: -1, SourceID: 0}

// IsUnknown reports whether s is the Unknown sentinel.
func (s Span) IsUnknown() bool {
	return s == Unknown
}

// New builds a span over [start, end) in the given source.
func New(start, end int, sourceID uint32) Span {
	return Span{Start: start, End: end, SourceID: sourceID}
}

// Union returns the smallest span covering both a and b. If either is
// Unknown, the other is returned unchanged; mixing sources returns a.
func Union(a, b Span) Span {
	if a.IsUnknown() {
		return b
	}
	if b.IsUnknown() {
		return a
	}
	if a.SourceID != b.SourceID {
		return a
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end, SourceID: a.SourceID}
}
