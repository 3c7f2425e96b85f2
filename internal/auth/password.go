package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

const authRequestTimeout = 30 * time.Second

// PasswordConfig configures a PasswordTokenManager.
type PasswordConfig struct {
	// AuthURL is the full URL of the auth endpoint.
	AuthURL string

	// Username and Password are the credentials exchanged for a token. They
	// are immutable for the life of the manager.
	Username string
	Password string

	// UserAgent is set on auth requests when non-empty.
	UserAgent string

	// HTTPClient overrides the default client used for the exchange.
	HTTPClient *http.Client
}

// PasswordTokenManager exchanges username/password credentials for a session
// token. It authenticates lazily on the first GetToken call and again after
// each Invalidate; it never retries internally, since retry policy belongs
// to the caller driving it.
type PasswordTokenManager struct {
	config     *PasswordConfig
	httpClient *http.Client
	store      *TokenStore
}

// NewPasswordTokenManager creates a password-exchange token manager.
func NewPasswordTokenManager(config *PasswordConfig) *PasswordTokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: authRequestTimeout}
	}

	return &PasswordTokenManager{
		config:     config,
		httpClient: httpClient,
		store:      NewTokenStore(),
	}
}

// GetToken returns the live token, authenticating first if none is live.
func (m *PasswordTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	return m.authenticate(ctx)
}

// Invalidate clears the live token.
func (m *PasswordTokenManager) Invalidate() {
	m.store.Clear()
}

// authenticate posts the credentials to the auth endpoint and stores the
// returned token. A 401 maps to a dedicated authentication error; any other
// failure maps to an invalid-request error carrying the upstream status and
// message for diagnosis.
func (m *PasswordTokenManager) authenticate(ctx context.Context) (string, error) {
	form := url.Values{
		"username": []string{m.config.Username},
		"password": []string{m.config.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if m.config.UserAgent != "" {
		req.Header.Set("User-Agent", m.config.UserAgent)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending auth request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading auth response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", &clientsuccess.APIError{
			Status:  http.StatusUnauthorized,
			Message: "authentication failed: invalid credentials",
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &clientsuccess.APIError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("authentication request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return "", fmt.Errorf("parsing auth response: %w", err)
	}

	if !token.Valid() {
		return "", fmt.Errorf("authenticating: %w", clientsuccess.ErrEmptyTokenResponse)
	}

	m.store.Set(&token)

	return token.AccessToken, nil
}

// StaticTokenManager serves a pre-issued token. Invalidate is a no-op, so a
// 401 cannot be recovered and the caller's refresh loop will exhaust.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a manager around a pre-issued token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the static token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

// Invalidate is a no-op; a static token cannot be refreshed.
func (m *StaticTokenManager) Invalidate() {}
