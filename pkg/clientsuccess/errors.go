package clientsuccess

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the uniform error shape for every failure surfaced to a caller,
// whether raised locally (validation) or translated from a provider response.
type APIError struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	UserMessage string `json:"userMessage,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.UserMessage != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Message, e.UserMessage, e.Status)
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrCredentialsRequired = errors.New("username and password (or an access token) are required")
	ErrEventsNotConfigured = errors.New("events project ID and API key are not configured")
	ErrEmptyTokenResponse  = errors.New("auth endpoint returned an empty access token")
)

// IsValidation checks if the error is a local or provider bad-request error.
func IsValidation(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound checks if the error is a not-found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsExpectationFailed checks if the error is a provider-side semantic
// validation failure (e.g. an invalid enum value).
func IsExpectationFailed(err error) bool {
	return hasStatus(err, http.StatusExpectationFailed)
}

// IsServiceUnavailable checks if the error is a provider outage.
func IsServiceUnavailable(err error) bool {
	return hasStatus(err, http.StatusServiceUnavailable)
}

// IsTooManyAttempts checks if the error is the synthetic error raised when
// the token-refresh loop exhausts its attempts.
func IsTooManyAttempts(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}

	return false
}
