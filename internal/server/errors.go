package server

import (
	"errors"
	"net/http"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/store"
)

// Error codes returned in the "error" field of the envelope.
const (
	codeInvalidJSON      = "invalid_json"
	codeInvalidInput     = "invalid_input"
	codeInvalidAction    = "invalid_action"
	codeFactorNotFound   = "factor_not_found"
	codeNotFound         = "not_found"
	codeNoFootprints     = "no_footprints"
	codeDuplicateEmail   = "duplicate_email"
	codeRequestTooLarge  = "request_too_large"
	codeRouteNotFound    = "route_not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// apiError is an error with an explicit status and code.
type apiError struct {
	status  int
	code    string
	message string
	err     error
}

func (e *apiError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *apiError) Unwrap() error { return e.err }

func newAPIError(status int, code, message string, err error) *apiError {
	return &apiError{status: status, code: code, message: message, err: err}
}

// classify maps an error to its HTTP status, code, and client-facing message.
// Unrecognised errors become 500 with a generic message.
func classify(err error) (int, string, string) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.status, apiErr.code, apiErr.Error()
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, codeRequestTooLarge, "request body too large"
	case errors.Is(err, carbon.ErrInvalidInput), errors.Is(err, store.ErrInvalidRecord):
		return http.StatusBadRequest, codeInvalidInput, err.Error()
	case errors.Is(err, carbon.ErrInvalidAction):
		return http.StatusBadRequest, codeInvalidAction, err.Error()
	case errors.Is(err, carbon.ErrFactorNotFound):
		return http.StatusBadRequest, codeFactorNotFound, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, codeNotFound, err.Error()
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict, codeDuplicateEmail, err.Error()
	default:
		return http.StatusInternalServerError, codeInternal, "internal server error"
	}
}
