// Package diag defines the diagnostic records reportable lowering errors
// are emitted as, and the Sink interface collaborators emit them through.
//
// Grounded on cmd/lsp/diagnostics.go's DiagnosticError{File, Token{Line,
// Column, Lexeme}, Code} shape, adapted from an LSP-specific record into
// a library-neutral one a terminal printer, a test collector, or an LSP
// server can all consume.
package diag

import (
	"fmt"

	"github.com/funvibe/fxeir/internal/span"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Code is a short, stable identifier for a class of diagnostic, e.g.
// "unbound-variable" or "mismatched-arity".
type Code string

const (
	CodeUnboundVariable     Code = "unbound-variable"
	CodeUnsupportedPattern  Code = "unsupported-pattern"
	CodeMismatchedArity     Code = "mismatched-arity"
	CodeIllegalGuard        Code = "illegal-guard"
	CodeUnmatchableClause   Code = "unmatchable-clause"
	CodeInvalidIR           Code = "invalid-ir"
)

// Label attaches a short message to a secondary span, e.g. pointing at
// where a variable was first bound.
type Label struct {
	Span    span.Span
	Message string
}

// Diagnostic is one reportable lowering error. Per spec.md §7, emitting
// one never aborts lowering: the caller substitutes a best-effort
// fallback (a fresh unbound value or an unmatchable clause) and keeps
// going, so a single source file yields as many diagnostics as possible.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     span.Span
	Labels   []Label
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
}

// Sink is the collaborator-supplied destination for diagnostics. Callers
// in this module never format or print directly; they call Emit and move
// on.
type Sink interface {
	Emit(Diagnostic)
}

// CollectingSink accumulates every emitted diagnostic in memory, for
// tests and for callers that want to post-process before printing.
type CollectingSink struct {
	Diagnostics []Diagnostic
}

func (s *CollectingSink) Emit(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}

// HasErrors reports whether any diagnostic at SeverityError was emitted.
func (s *CollectingSink) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
