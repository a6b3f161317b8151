package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Error is an error that already knows how it is presented to the client.
type Error struct {
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Detail, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func notFound(detail string, err error) error {
	return &Error{Status: http.StatusNotFound, Detail: detail, Err: err}
}

func unprocessable(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Status: http.StatusUnprocessableEntity, Detail: msg, Err: common.ErrValidation}
}

// GetStatus maps an error returned by a handler to the status and detail
// sent to the client. Unknown errors are 500 and their text is not exposed.
func GetStatus(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, e.Detail
	}

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect username or password"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username already registered"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrExportDisabled):
		return http.StatusServiceUnavailable, "Export is not configured"
	case errors.Is(err, common.ErrInternal):
		return http.StatusInternalServerError, "Internal server error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
