package clientsuccess_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	t.Run("message only", func(t *testing.T) {
		t.Parallel()

		err := &clientsuccess.APIError{Status: 404, Message: "client not found"}
		assert.Equal(t, "client not found (status: 404)", err.Error())
	})

	t.Run("with user message", func(t *testing.T) {
		t.Parallel()

		err := &clientsuccess.APIError{
			Status:      417,
			Message:     "invalid status",
			UserMessage: "Status must be one of the configured values",
		}
		assert.Equal(t, "invalid status: Status must be one of the configured values (status: 417)", err.Error())
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		predicate func(error) bool
	}{
		{name: "validation", status: 400, predicate: clientsuccess.IsValidation},
		{name: "unauthorized", status: 401, predicate: clientsuccess.IsUnauthorized},
		{name: "not found", status: 404, predicate: clientsuccess.IsNotFound},
		{name: "expectation failed", status: 417, predicate: clientsuccess.IsExpectationFailed},
		{name: "too many attempts", status: 429, predicate: clientsuccess.IsTooManyAttempts},
		{name: "service unavailable", status: 503, predicate: clientsuccess.IsServiceUnavailable},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := &clientsuccess.APIError{Status: testCase.status, Message: "boom"}
			assert.True(t, testCase.predicate(err))
			assert.False(t, testCase.predicate(&clientsuccess.APIError{Status: 599}))
			assert.False(t, testCase.predicate(errors.New("plain error")))
		})
	}
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	t.Parallel()

	inner := &clientsuccess.APIError{Status: 404, Message: "client not found"}
	wrapped := fmt.Errorf("getting client: %w", inner)

	assert.True(t, clientsuccess.IsNotFound(wrapped))
	assert.False(t, clientsuccess.IsUnauthorized(wrapped))
}
