package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roadmunk/clientsuccess-go/internal/auth"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

func TestPasswordTokenManager_GetToken(t *testing.T) {
	t.Run("exchanges credentials for a token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/auth", r.URL.Path)
			assert.Equal(t, "POST", r.Method)

			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "testuser", r.Form.Get("username"))
			assert.Equal(t, "testpass", r.Form.Get("password"))

			_ = json.NewEncoder(w).Encode(auth.Token{AccessToken: "session-token"})
		}))
		defer server.Close()

		manager := auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:  server.URL + "/v1/auth",
			Username: "testuser",
			Password: "testpass",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "session-token", token)
	})

	t.Run("reuses the live token", func(t *testing.T) {
		authCalls := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCalls++
			_ = json.NewEncoder(w).Encode(auth.Token{AccessToken: "session-token"})
		}))
		defer server.Close()

		manager := auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:  server.URL + "/v1/auth",
			Username: "testuser",
			Password: "testpass",
		})

		for i := 0; i < 3; i++ {
			token, err := manager.GetToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "session-token", token)
		}

		assert.Equal(t, 1, authCalls)
	})

	t.Run("authenticates again after invalidate", func(t *testing.T) {
		authCalls := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCalls++
			_ = json.NewEncoder(w).Encode(auth.Token{AccessToken: "session-token"})
		}))
		defer server.Close()

		manager := auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:  server.URL + "/v1/auth",
			Username: "testuser",
			Password: "testpass",
		})

		_, err := manager.GetToken(context.Background())
		require.NoError(t, err)

		manager.Invalidate()

		_, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, authCalls)
	})

	t.Run("bad credentials fail with 401", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		manager := auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:  server.URL + "/v1/auth",
			Username: "testuser",
			Password: "wrong",
		})

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.True(t, clientsuccess.IsUnauthorized(err))
		assert.Empty(t, token)
	})

	t.Run("other failures fail with 400 carrying upstream detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		manager := auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:  server.URL + "/v1/auth",
			Username: "testuser",
			Password: "testpass",
		})

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.True(t, clientsuccess.IsValidation(err))
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream exploded")
		assert.Empty(t, token)
	})

	t.Run("empty token response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(auth.Token{})
		}))
		defer server.Close()

		manager := auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:  server.URL + "/v1/auth",
			Username: "testuser",
			Password: "testpass",
		})

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, clientsuccess.ErrEmptyTokenResponse)
	})
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("pre-issued")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pre-issued", token)

	// Invalidate is a no-op for static tokens.
	manager.Invalidate()

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pre-issued", token)
}
