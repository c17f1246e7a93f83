package services

import (
	"errors"
	"fmt"

	"smartmedical-server/internal/models"
)

var (
	// ErrNotFound is returned when an appointment or patient id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrPatientNotFound is returned when a supplied patient id does not resolve.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrInvalidTransition is returned when the lifecycle forbids a status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidStatus is returned for status values outside the lifecycle.
	ErrInvalidStatus = errors.New("invalid appointment status")
	// ErrInvalidSortField is returned when paging is asked to sort by an unknown field.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// TransitionError describes a rejected status change. It matches
// ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From models.AppointmentStatus
	To   models.AppointmentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

// Is lets errors.Is(err, ErrInvalidTransition) succeed.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// StorageError wraps a failure of the underlying store. It is passed to the
// caller untouched; nothing in this package retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for op. A nil err stays nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageFailure reports whether err originated in the store.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
