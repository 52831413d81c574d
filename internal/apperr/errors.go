// Package apperr defines the error taxonomy shared by the core, the services
// and the adapters. Every error carries a kind (validation, not found,
// permission, conflict, transaction) and a cause, and both can be matched
// with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPermission  = errors.New("permission denied")
	ErrConflict    = errors.New("integrity conflict")
	ErrTransaction = errors.New("transaction failure")
)

// Causes.
var (
	ErrInvalidPeriod       = errors.New("date outside the operating year")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrEmptyBatch          = errors.New("no entries submitted")
	ErrEmptyEdit           = errors.New("no rows in edit")
	ErrGroupNotFound       = errors.New("entry group not found")
	ErrForeignEntry        = errors.New("entry does not belong to the group")
	ErrForbidden           = errors.New("forbidden")
	ErrDelegationCancelled = errors.New("delegation is cancelled")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicateCode       = errors.New("code already exists")
	ErrDuplicateLogin      = errors.New("login already exists")
	ErrHasEntries          = errors.New("collaborator has time entries")
	ErrBadCredentials      = errors.New("invalid login or password")
	ErrMissingField        = errors.New("required field missing")
	ErrAlreadyInitialized  = errors.New("collaborators already registered")
)

// RowError describes why one submitted row was rejected.
type RowError struct {
	Row int // zero-based position in the submission
	Err error
}

func (r RowError) String() string {
	return fmt.Sprintf("row %d: %v", r.Row+1, r.Err)
}

// Error is the structured error returned across layers.
type Error struct {
	Kind  error
	Cause error
	Msg   string
	Rows  []RowError
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	for _, r := range e.Rows {
		b.WriteString("; ")
		b.WriteString(r.String())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// New builds an error of the given kind.
func New(kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Cause: cause, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error.
func Validation(cause error, format string, args ...any) *Error {
	return New(ErrValidation, cause, format, args...)
}

// NotFound builds a not-found error.
func NotFound(format string, args ...any) *Error {
	return New(ErrNotFound, nil, format, args...)
}

// Permission builds a permission error with the ErrForbidden cause.
func Permission(format string, args ...any) *Error {
	return New(ErrPermission, ErrForbidden, format, args...)
}

// Conflict builds an integrity conflict.
func Conflict(cause error, format string, args ...any) *Error {
	return New(ErrConflict, cause, format, args...)
}

// Transaction wraps a store failure that aborted a transaction.
func Transaction(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrTransaction, Cause: err, Msg: fmt.Sprintf(format, args...)}
}

// RowsInvalid aggregates per-row failures into one validation error.
// The cause is taken from the first row so callers can still match on it.
func RowsInvalid(rows []RowError) *Error {
	e := &Error{Kind: ErrValidation, Msg: fmt.Sprintf("%d invalid row(s)", len(rows)), Rows: rows}
	if len(rows) > 0 {
		e.Cause = rows[0].Err
	}
	return e
}

// KindOf reports the kind of err, or nil if it is not classified.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrPermission, ErrConflict, ErrTransaction} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
