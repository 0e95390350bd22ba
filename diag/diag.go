// Package diag implements a {severity, location, message} diagnostic
// stream: one shared accumulator every pass writes into instead of
// returning Go errors.
package diag

import (
	"fmt"
	"strings"

	"shaderxc/token"
)

// Severity classifies a Record. Only Error and Fatal exist.
type Severity int

const (
	Error Severity = iota
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Fatal:
		return "fatal"
	default:
		return "error"
	}
}

// Kind labels which error-handling category a Record belongs to,
// purely for presentation; it has no effect on control flow.
type Kind int

const (
	Lexical Kind = iota
	Preprocessor
	Syntactic
	Semantic
	Dataflow
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Preprocessor:
		return "preprocessor"
	case Syntactic:
		return "syntax"
	case Semantic:
		return "semantic"
	case Dataflow:
		return "dataflow"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Record is a single diagnostic: where it happened, how bad it is, and
// what went wrong.
type Record struct {
	Severity Severity
	Kind     Kind
	Loc      token.Location
	Message  string
}

func (r Record) String() string {
	return fmt.Sprintf("%s: %s: %s: %s", r.Loc, r.Severity, r.Kind, r.Message)
}

// Bag accumulates Records across passes. It is the sole mechanism for
// reporting problems; no pass returns a Go error for a compile-time
// mistake in the input; an unresolvable #include target is reported
// here as a preprocessor diagnostic as well. Diagnostics are never
// thrown across pass boundaries — they are buffered records.
type Bag struct {
	records []Record
	fatal   bool
}

// Add appends a non-fatal diagnostic.
func (b *Bag) Add(kind Kind, loc token.Location, format string, args ...any) {
	b.records = append(b.records, Record{Severity: Error, Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// AddFatal appends a fatal diagnostic and sets HasFatal. Callers that
// drive multi-pass pipelines must check HasFatal after every pass and
// skip the remaining passes if it is set.
func (b *Bag) AddFatal(kind Kind, loc token.Location, format string, args ...any) {
	b.records = append(b.records, Record{Severity: Fatal, Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)})
	b.fatal = true
}

// HasFatal reports whether any Fatal record has been added.
func (b *Bag) HasFatal() bool { return b.fatal }

// HasErrors reports whether the bag holds any record at all. A process
// exit code should be nonzero iff this is true; a fatal record is also
// a record, so HasFatal implies HasErrors.
func (b *Bag) HasErrors() bool { return len(b.records) > 0 }

// Records returns the accumulated diagnostics in emission order.
func (b *Bag) Records() []Record { return b.records }

// Merge appends other's records into b, preserving order and fatality.
func (b *Bag) Merge(other *Bag) {
	b.records = append(b.records, other.records...)
	if other.fatal {
		b.fatal = true
	}
}

func (b *Bag) String() string {
	var sb strings.Builder
	for i, r := range b.records {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}
