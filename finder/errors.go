package finder

import (
	"errors"
	"fmt"
)

// ErrMalformedData reports that a persisted structure blob did not match
// any known encoding. It never leaves the load path: callers fall back to
// an empty structure instead of propagating it.
var ErrMalformedData = errors.New("malformed persisted data")

// ValidationError is returned when user input violates a naming or
// uniqueness rule. The model is left unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a referenced node id does not exist at
// operation time.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node %q does not exist", e.ID)
}

// PermissionError is returned for attempted mutations of system folders.
type PermissionError struct {
	Op   string
	Name string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot %s system folder %q", e.Op, e.Name)
}

// TransientIOError wraps a failed persistence attempt. It is logged and
// surfaced as a notification, never returned from model operations: the
// in-memory mutation stays applied.
type TransientIOError struct {
	Target string
	Err    error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Target, e.Err)
}

func (e *TransientIOError) Unwrap() error {
	return e.Err
}
