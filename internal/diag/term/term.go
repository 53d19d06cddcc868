// Package term implements a reference diag.Sink that prints to a
// terminal, colorizing severities when the output is a real TTY, using
// go-isatty for TTY detection.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/fxeir/internal/diag"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorReset  = "\x1b[0m"
)

// Sink prints each diagnostic to w as it is emitted and keeps a running
// count, so Summary can report "N diagnostics" with humanize.Comma
// formatting for large counts.
type Sink struct {
	w       io.Writer
	color   bool
	errors  int
	warns   int
	notes   int
}

// New returns a Sink writing to w, auto-detecting color support when w is
// *os.File.
func New(w io.Writer) *Sink {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Sink{w: w, color: color}
}

func (s *Sink) Emit(d diag.Diagnostic) {
	switch d.Severity {
	case diag.SeverityError:
		s.errors++
	case diag.SeverityWarning:
		s.warns++
	default:
		s.notes++
	}

	prefix := d.Severity.String()
	color := s.severityColor(d.Severity)
	if color != "" {
		fmt.Fprintf(s.w, "%s%s%s[%s]: %s\n", color, prefix, colorReset, d.Code, d.Message)
	} else {
		fmt.Fprintf(s.w, "%s[%s]: %s\n", prefix, d.Code, d.Message)
	}

	for _, label := range d.Labels {
		fmt.Fprintf(s.w, "    %s\n", label.Message)
	}
}

func (s *Sink) severityColor(sev diag.Severity) string {
	if !s.color {
		return ""
	}
	switch sev {
	case diag.SeverityError:
		return colorRed
	case diag.SeverityWarning:
		return colorYellow
	default:
		return colorCyan
	}
}

// Summary returns a one-line total, matching the kind of compact stats
// line the reference CLI reports after a run.
func (s *Sink) Summary() string {
	total := s.errors + s.warns + s.notes
	return fmt.Sprintf("%s diagnostics (%s errors, %s warnings)",
		humanize.Comma(int64(total)), humanize.Comma(int64(s.errors)), humanize.Comma(int64(s.warns)))
}

// ErrorCount returns the number of SeverityError diagnostics emitted.
func (s *Sink) ErrorCount() int { return s.errors }
