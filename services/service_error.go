package services

import (
	"net/http"
	"regexp"
	"strings"
)

// ServiceError carries an HTTP status alongside a user-facing message.
// Controllers translate it directly into the response.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func newServiceError(code int, msg string) *ServiceError {
	return &ServiceError{StatusCode: code, Message: msg}
}

func internalError(msg string) *ServiceError {
	return newServiceError(http.StatusInternalServerError, msg)
}

func notFoundError(msg string) *ServiceError {
	return newServiceError(http.StatusNotFound, msg)
}

func badRequestError(msg string) *ServiceError {
	return newServiceError(http.StatusBadRequest, msg)
}

func conflictError(msg string) *ServiceError {
	return newServiceError(http.StatusConflict, msg)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
