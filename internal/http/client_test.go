package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// fakeTokenManager hands out sequenced tokens and counts issuance and
// invalidation, so tests can observe the refresh loop from the outside.
type fakeTokenManager struct {
	mu          sync.Mutex
	serial      int
	invalidated int
	current     string
}

func (m *fakeTokenManager) GetToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == "" {
		m.serial++
		m.current = "token-" + strconv.Itoa(m.serial)
	}

	return m.current, nil
}

func (m *fakeTokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invalidated++
	m.current = ""
}

func (m *fakeTokenManager) issued() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.serial
}

func TestClientDo_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/v1/clients/42", r.URL.Path)
		// Bare token, no Bearer prefix.
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer server.Close()

	manager := &fakeTokenManager{}
	client := internalhttp.NewClient(server.URL, manager)

	resp, err := client.Get(context.Background(), "/v1/clients/42", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":42}`, string(resp.Body))
	assert.Equal(t, 1, manager.issued())
}

func TestClientDo_RefreshesTokenOn401(t *testing.T) {
	t.Parallel()

	// Reject the first three tokens, accept the fourth.
	const rejections = 3

	requests := 0

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		requests++
		if requests <= rejections {
			w.WriteHeader(nethttp.StatusUnauthorized)

			return
		}

		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	manager := &fakeTokenManager{}
	client := internalhttp.NewClient(server.URL, manager)

	resp, err := client.Get(context.Background(), "/v1/clients/1", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	assert.Equal(t, rejections+1, requests)
	assert.Equal(t, rejections+1, manager.issued())
	assert.Equal(t, rejections, manager.invalidated)
}

func TestClientDo_GivesUpAfterRepeated401(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		requests++

		w.WriteHeader(nethttp.StatusUnauthorized)
	}))
	defer server.Close()

	manager := &fakeTokenManager{}
	client := internalhttp.NewClient(server.URL, manager)

	resp, err := client.Get(context.Background(), "/v1/clients/1", nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, clientsuccess.IsTooManyAttempts(err))

	// Every attempt got a fresh token and hit the server once.
	assert.Equal(t, 10, requests)
	assert.Equal(t, 10, manager.issued())
}

func TestClientDo_DoesNotRetryOtherFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"bad request", nethttp.StatusBadRequest, clientsuccess.IsValidation},
		{"not found", nethttp.StatusNotFound, clientsuccess.IsNotFound},
		{"expectation failed", nethttp.StatusExpectationFailed, clientsuccess.IsExpectationFailed},
		{"service unavailable", nethttp.StatusServiceUnavailable, clientsuccess.IsServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			requests := 0

			server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				requests++

				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			manager := &fakeTokenManager{}
			client := internalhttp.NewClient(server.URL, manager)

			_, err := client.Get(context.Background(), "/v1/clients/1", nil)
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.Equal(t, 1, requests)
			assert.Equal(t, 0, manager.invalidated)
		})
	}
}

func TestClientDo_ParsesErrorBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusExpectationFailed)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message":     "client could not be saved",
			"userMessage": "A client with this name already exists.",
		})
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, &fakeTokenManager{})

	_, err := client.Post(context.Background(), "/v1/clients", map[string]string{"name": "dup"})
	require.Error(t, err)

	var apiErr *clientsuccess.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, nethttp.StatusExpectationFailed, apiErr.Status)
	assert.Equal(t, "client could not be saved", apiErr.Message)
	assert.Equal(t, "A client with this name already exists.", apiErr.UserMessage)
}

func TestClientDo_RequiresMethod(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		requests++
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, &fakeTokenManager{})

	_, err := client.Do(context.Background(), &internalhttp.Request{Path: "/v1/clients"})
	require.Error(t, err)
	assert.True(t, clientsuccess.IsValidation(err))
	assert.Equal(t, 0, requests)
}

func TestClientDo_WithoutTokenManager(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "events-project", r.Header.Get("project-id"))

		w.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.Do(context.Background(), &internalhttp.Request{
		Method:  nethttp.MethodPost,
		Path:    "/collector/events",
		Headers: map[string]string{"project-id": "events-project"},
		Body:    map[string]string{"activity": "login"},
	})
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestClientDo_RetryConfigRetriesServerErrors(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)

			return
		}

		w.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, &fakeTokenManager{},
		internalhttp.WithRetryConfig(2, time.Millisecond, 5*time.Millisecond))

	resp, err := client.Get(context.Background(), "/v1/clients/1", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, requests)
}
