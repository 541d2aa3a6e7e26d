// Package rerr defines the closed vocabulary of error kinds the resolver
// reports, attached to the coordinate that failed and the underlying cause.
package rerr

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// A Kind classifies why a resolver operation failed.
type Kind int

const (
	// NotFound is returned for a non-2xx HTTP response fetching a POM or JAR
	// that the fetch client does not retry (a 429 or 5xx still failing after
	// retries surfaces as IoError instead).
	NotFound Kind = iota
	// Timeout is returned when a network operation exceeds its caller-supplied deadline.
	Timeout
	// IoError is returned for filesystem failures and other transport errors that aren't NotFound.
	IoError
	// ParseError is returned for malformed XML or a POM missing required fields.
	ParseError
	// MalformedPom is returned when parent inheritance cannot fill a mandatory groupId/version.
	MalformedPom
	// Cycle is returned when a parent chain references an ancestor of itself.
	Cycle
	// Cancelled is returned when a task is aborted cooperatively after another task failed.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case IoError:
		return "IoError"
	case ParseError:
		return "ParseError"
	case MalformedPom:
		return "MalformedPom"
	case Cycle:
		return "Cycle"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// An Error names the failing coordinate notation, the Kind of failure, and
// wraps the underlying cause (if any) so errors.Is/As still see through it.
type Error struct {
	Kind  Kind
	Coord string
	Cause error
}

func New(kind Kind, coord string, cause error) *Error {
	return &Error{Kind: kind, Coord: coord, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Coord, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Coord, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err is an *Error of the given kind, looking through
// any wrapping.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Append aggregates diagnostic-only failures collected after a first error
// has already been reported upstream (e.g. stragglers drained off the task
// sink once the resolver is already failing). It never changes which error
// is treated as the root cause.
func Append(err error, errs ...error) error {
	var merr *multierror.Error
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	for _, e := range errs {
		if e != nil {
			merr = multierror.Append(merr, e)
		}
	}
	if merr == nil {
		return nil
	}
	return merr
}
