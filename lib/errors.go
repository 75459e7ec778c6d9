package lib

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
	ErrStale    = errors.New("record changed since it was read")
)

// Request errors
var (
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidID            = errors.New("invalid id")
)

// Session errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
	ErrNoSession    = errors.New("no session")
)

// PersistenceError wraps any failed fetch, insert, update or delete against a
// collection. Writes that fail this way are never retried automatically.
type PersistenceError struct {
	Op         string // fetch, insert, update, delete
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError returns nil when err is nil. Not-found and conflict
// keep their identity through Unwrap.
func NewPersistenceError(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Collection: collection, Err: MapPgError(err)}
}

// NewValidationError builds a ValidationError from field/message pairs
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Errors: fields}
}

// PgErrorCode returns the SQLSTATE carried by either driver's error, or ""
func PgErrorCode(err error) string {
	var driverErr pgdriver.Error
	var pgxErr *pgconn.PgError
	switch {
	case errors.As(err, &driverErr):
		return driverErr.Field('C')
	case errors.As(err, &pgxErr):
		return pgxErr.Code
	}
	return ""
}

// MapPgError gives unique violations and no_data_found their sentinel identity
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	switch PgErrorCode(err) {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case "P0002": // no_data_found
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
