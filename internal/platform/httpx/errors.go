// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the domain layer. Every handler funnels its
// failures through RespondError so the wire taxonomy stays uniform.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
)

// RespondError maps domain errors to the API error envelope.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		Error(w, r, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrForbidden):
		Error(w, r, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrValidation):
		Error(w, r, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, r, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrConflict):
		Error(w, r, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrUnavailable):
		Error(w, r, http.StatusServiceUnavailable, "Unavailable", err.Error())
	default:
		Error(w, r, http.StatusInternalServerError, "Internal Error", "")
	}
}
