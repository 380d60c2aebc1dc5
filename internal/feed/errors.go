package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for bad page or page size values. The
	// request is rejected before any data access.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDependencyUnavailable is returned when the candidate or relationship
	// source fails. Callers may retry.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrPartialResolution marks a single candidate whose author or comment
	// lookup failed. It is never returned from Rank.
	ErrPartialResolution = errors.New("partial resolution failure")
)

// Error carries the failing operation along with one of the sentinel kinds.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("feed: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("feed: %s: %v: %v", e.Op, e.Kind, e.Err)
}

// Is matches the sentinel kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Err: fmt.Errorf(format, args...)}
}

func unavailable(op string, err error) error {
	return &Error{Kind: ErrDependencyUnavailable, Op: op, Err: err}
}

func partial(op string, err error) error {
	return &Error{Kind: ErrPartialResolution, Op: op, Err: err}
}
