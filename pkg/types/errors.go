package types

import (
	"errors"
	"fmt"
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Entity constraint errors. These are expected outcomes of normal use (a
// user retrying a duplicate title) and are returned, never panicked.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrInvalidID           = errors.New("invalid entity ID")
	ErrInvalidTitle        = errors.New("topic title must not be empty")
	ErrInvalidTimeWindow   = errors.New("topic start and end must differ")
	ErrInvalidTimeOfDay    = errors.New("invalid time of day")
	ErrDuplicateTitle      = errors.New("topic title already exists")
	ErrInvalidBody         = errors.New("note body must not be empty")
	ErrInvalidStatement    = errors.New("problem statement must not be empty")
	ErrDuplicateStatement  = errors.New("problem statement already exists")
	ErrForeignKeyViolation = errors.New("referenced topic does not exist")
)

// ErrPersistence matches every *PersistenceError via errors.Is.
var ErrPersistence = errors.New("persistence error")

// PersistenceError wraps a failure of the underlying storage or file I/O.
type PersistenceError struct {
	Op  string // Operation that failed, e.g. "create topic".
	Err error  // Underlying driver or filesystem error.
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying error.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Persistence returns a *PersistenceError for op, or nil if err is nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
