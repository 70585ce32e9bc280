package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrRequestNotFound = errors.New("lab request not found")

// PersistenceError means the request could not be stored. Nothing was
// written and the caller's form is untouched, so the submission can be retried.
type PersistenceError struct {
	Op   string
	Code string // SQLSTATE when the database reported one
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("submission failed, please retry: %s: %v (sqlstate %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("submission failed, please retry: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func newPersistenceError(op string, err error) *PersistenceError {
	pe := &PersistenceError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		pe.Code = pgErr.Code
	}
	return pe
}
