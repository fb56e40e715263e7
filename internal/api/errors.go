package api

import (
	"errors"
	"net/http"

	"roomdesk/internal/service"
)

// statusFromError maps a service failure to an HTTP status and a metrics
// result label. Unclassified errors are server faults.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrCannotBook):
		return http.StatusForbidden, "cannot_book"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "error"
	}
}
