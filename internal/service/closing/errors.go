package closing

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned by stores when an insert collides with a
// uniqueness constraint. The orchestrator treats it as "someone else just
// created the row" and re-reads instead of failing.
var ErrDuplicateKey = errors.New("duplicate key")

// ValidationError rejects a submission before any write reaches the
// backend. It is shown inline to the attendant.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IdentityError means no operator or backend user could be resolved for
// the submission. The attendant must re-select an operator and retry; the
// attempt is not retried automatically.
type IdentityError struct {
	Message string
}

func (e *IdentityError) Error() string { return e.Message }

// ShiftError means no shift could be resolved for the station, after one
// silent retry. Submission is blocked: every closing requires a shift.
type ShiftError struct {
	Message string
}

func (e *ShiftError) Error() string { return e.Message }

// PersistenceError wraps a backend failure during the parent find-or-create
// or the child upsert. The operation is idempotent, so retrying is safe.
type PersistenceError struct {
	Stage string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
