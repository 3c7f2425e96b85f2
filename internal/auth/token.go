package auth

import (
	"context"
	"sync"
)

// TokenManager manages the session token attached to API requests.
type TokenManager interface {
	// GetToken returns the live token, obtaining one first if none is live.
	GetToken(ctx context.Context) (string, error)

	// Invalidate clears the live token so the next GetToken call obtains a
	// fresh one. Called by the HTTP layer when a request comes back 401.
	Invalidate()
}

// Token is the session token returned by the auth endpoint. The provider
// does not report an expiry; tokens stay live until a request is rejected
// with a 401.
type Token struct {
	AccessToken string `json:"access_token"`
}

// Valid reports whether the token can be attached to a request.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// TokenStore provides mutex-guarded storage for the per-instance token.
// The guard keeps concurrent reads and writes memory-safe; it does not make
// the surrounding refresh flow race-free for concurrent callers (one call's
// invalidation can discard a token another call just obtained).
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set stores a token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
