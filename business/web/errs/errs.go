// Package errs provides the error types returned to clients of the ledger
// web api.
package errs

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context. The message of a trusted error is
// safe to show to the client.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// FromLedger converts the errors returned by the ledger into trusted errors
// with the status code that matches their meaning. Unknown errors are
// returned untouched.
func FromLedger(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, database.ErrInvalidArgument),
		errors.Is(err, database.ErrSigning),
		errors.Is(err, state.ErrRejected):
		return NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, state.ErrNoTransactions):
		return NewTrusted(err, http.StatusConflict)

	case errors.Is(err, state.ErrInvalidBlock):
		return NewTrusted(err, http.StatusUnprocessableEntity)

	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return NewTrusted(err, http.StatusServiceUnavailable)
	}

	return err
}
