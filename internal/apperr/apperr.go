// Package apperr holds the sentinel errors shared across services and the
// mapping from those errors to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidSignature  = errors.New("Invalid payment signature")
	ErrAlreadyCancelled  = errors.New("order already cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrGateway           = errors.New("payment gateway error")
)

// HTTPStatus maps a domain error to the status code the handlers return.
// Anything unrecognised is a persistence or internal failure.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrGateway):
		// Gateway failures are server-side: the client request was fine.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
