// Package apierr defines the uniform error shape returned by every route.
//
// Anything below the route boundary that has an HTTP meaning returns an *Error.
// Routes translate it into the JSON envelope:
//
//	{"error": {"code": "MISSING_PARAM", "message": "location_id is required."}}
//
// Errors that are not an *Error are reported as a generic 500 so that internal
// details never reach the client.
package apierr

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// Codes used across the API.
const (
	CodeMissingParam     = "MISSING_PARAM"
	CodeInvalidUpstream  = "INVALID_UPSTREAM_RESPONSE"
	CodeInternal         = "INTERNAL_ERROR"
	CodeForbidden        = "FORBIDDEN"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeWebhook          = "WEBHOOK_ERROR"
	CodeUpstream         = "SQUARE_API_ERROR"
	CodeNetwork          = "NETWORK_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Error is an error with an HTTP status and a client-facing code and message.
type Error struct {
	Status  int
	Code    string
	Message string
}

// New creates an Error.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
}

// Body is the inner object of the envelope.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the JSON error document.
type Envelope struct {
	Error Body `json:"error"`
}

// Envelope returns the JSON document for e.
func (e *Error) Envelope() Envelope {
	return Envelope{Error: Body{Code: e.Code, Message: e.Message}}
}

// MissingParam reports a required query parameter that was absent.
func MissingParam(name string) *Error {
	return New(http.StatusBadRequest, CodeMissingParam, name+" is required.")
}

// InvalidUpstream reports an upstream payload that failed validation.
func InvalidUpstream(api string) *Error {
	return New(http.StatusBadGateway, CodeInvalidUpstream, "Malformed data from Square "+api+" API.")
}

// Internal is the generic error for anything unexpected.
func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternal, "Something went wrong.")
}

// From extracts an *Error from err's chain, falling back to Internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}
