// Package apierr defines the service's error taxonomy: each error carries an
// HTTP status, a stable machine-readable code, and a human message. Internal
// detail never reaches the response body.
package apierr

import "net/http"

type Error struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, "CONFLICT", message)
}

// AttemptLimit is a policy rejection, deliberately distinct from Forbidden:
// the learner is allowed to see the quiz, just not to start another attempt.
func AttemptLimit(message string) *Error {
	return New(http.StatusBadRequest, "ATTEMPT_LIMIT_EXCEEDED", message)
}

func Validation(message string, details interface{}) *Error {
	e := New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", message)
	e.Details = details
	return e
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
