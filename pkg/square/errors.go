package square

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/Sternrassler/square-menu/pkg/apierr"
)

// Common errors returned by the client.
var (
	// ErrMissingAccessToken is returned when a call is attempted without a token.
	ErrMissingAccessToken = errors.New("SQUARE_ACCESS_TOKEN is not configured")

	// ErrInvalidPayload is returned when an upstream payload fails validation.
	ErrInvalidPayload = errors.New("invalid upstream payload")
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx errors other than rate limiting.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"
)

// UpstreamError is one entry of Square's errors array.
type UpstreamError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// categoryMessages are friendly messages keyed by Square error category.
var categoryMessages = map[string]string{
	"NOT_FOUND":             "The requested resource was not found in Square.",
	"UNAUTHORIZED":          "Invalid or expired Square access token.",
	"RATE_LIMITED":          "Too many requests to Square. Please try again shortly.",
	"INVALID_REQUEST_ERROR": "The request to Square was malformed.",
}

const genericMessage = "An unexpected error occurred with the Square API."

// MapError converts a Square error array into an *apierr.Error. Only the first
// entry is considered.
func MapError(status int, errs []UpstreamError) *apierr.Error {
	if len(errs) == 0 {
		return apierr.New(status, apierr.CodeUpstream, genericMessage)
	}
	first := errs[0]

	code := first.Code
	if code == "" {
		code = apierr.CodeUpstream
	}

	message, ok := categoryMessages[first.Category]
	if !ok {
		message = first.Detail
	}
	if message == "" {
		message = genericMessage
	}

	return apierr.New(status, code, message)
}

// networkError maps a transport failure.
func networkError(err error) *apierr.Error {
	msg := "Unable to reach Square."
	if err != nil {
		msg = err.Error()
	}
	return MapError(http.StatusServiceUnavailable, []UpstreamError{{Code: apierr.CodeNetwork, Detail: msg}})
}

// classify categorizes a mapped error for metrics and retry decisions.
func classify(err *apierr.Error) ErrorClass {
	switch {
	case err.Code == apierr.CodeNetwork:
		return ErrorClassNetwork
	case err.Status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case err.Status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// shouldRetry reports whether an error class is worth retrying.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		// 4xx errors will fail the same way again
		return false
	}
}
