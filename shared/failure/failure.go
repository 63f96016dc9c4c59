package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var SessionNotFound = &Failure{Code: http.StatusNotFound, Message: "booking session not found"}
var DraftLocked = &Failure{Code: http.StatusConflict, Message: "draft is read-only until availability is re-checked"}
var NoActiveDraft = &Failure{Code: http.StatusConflict, Message: "no draft is being edited in this session"}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// Upstream wraps a failure of the external reservation service. The
// server-provided message is kept when there is one; callers fall back to a
// generic description otherwise.
func Upstream(statusCode int, msg string) error {
	if msg == "" {
		msg = "reservation service request failed"
	}

	code := http.StatusBadGateway
	if statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError {
		code = statusCode
	}

	return &Failure{
		Code:    code,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// IsUpstream reports whether err carries an HTTP code in the 5xx/bad-gateway
// range, i.e. the remote collaborator failed rather than the caller.
func IsUpstream(err error) bool {
	return GetCode(err) >= http.StatusInternalServerError
}
