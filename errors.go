package sheetmap

import (
	"errors"
	"fmt"
)

/* =========================================================
 *  Error Taxonomy
 * ========================================================= */

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// ErrorCell: the collaborator reported an error-valued cell and the
	// configured policy forbids passing it through as a number.
	ErrorCell ErrorKind = iota
	// FormulaCell: a formula cell under the strict (default) policy.
	FormulaCell
	// UnknownCellType: the collaborator reported a cell kind outside the
	// documented set. A contract violation, not a data-quality issue.
	UnknownCellType
	// ValidationFailure: a column or rest validator rejected a value.
	ValidationFailure
	// FailedRowMapify wraps any failure while building one record.
	FailedRowMapify
	// FailedSheetMapify wraps a row failure at sheet granularity.
	FailedSheetMapify
	// InvalidColumnSpec: the ColumnSpec structural invariant was violated.
	InvalidColumnSpec
	// InvalidOptions: an unrecognized policy value was configured.
	InvalidOptions
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorCell:
		return "error cell"
	case FormulaCell:
		return "formula cell"
	case UnknownCellType:
		return "unknown cell type"
	case ValidationFailure:
		return "validation failure"
	case FailedRowMapify:
		return "failed row mapify"
	case FailedSheetMapify:
		return "failed sheet mapify"
	case InvalidColumnSpec:
		return "invalid column spec"
	case InvalidOptions:
		return "invalid options"
	}
	return "unknown error"
}

// Error is the structured failure type for the whole pipeline: a kind, the
// Origin of the offending value (coarsened to row or sheet granularity when
// the failure spans multiple cells), and an optional wrapped cause.
type Error struct {
	Kind    ErrorKind
	Origin  *Origin
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg = e.Message
	}
	if loc := e.Origin.String(); loc != "" {
		msg = fmt.Sprintf("%s: %s", loc, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an *Error with a formatted message.
func newError(kind ErrorKind, origin *Origin, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Origin:  origin,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// IsKind reports whether any error in err's chain is an *Error of the given
// kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var e *Error
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		return false
	}
	return false
}

// OriginOf returns the most precise (innermost) Origin attached to err's
// chain, or nil if none is.
func OriginOf(err error) *Origin {
	var origin *Origin
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		if e.Origin != nil {
			origin = e.Origin
		}
		err = e.Err
	}
	return origin
}

// ProtocolError reports an extractor that violated the success-signaling
// protocol: its returned state's message was not Found. This is a structural
// contract failure (a programming mistake in the extractor chain), not a data
// error, so it is kept separate from the Error taxonomy above. The offending
// extractor's full returned state is preserved for inspection.
type ProtocolError struct {
	Extractor string
	State     ExtractorState
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("extractor %q did not signal %q (got %q at sheet=%d row=%d col=%d)",
		e.Extractor, Found, e.State.Message,
		e.State.Position.Sheet, e.State.Position.Row, e.State.Position.Col)
}
