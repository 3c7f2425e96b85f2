// Package csclient provides the main entry point for creating ClientSuccess
// API clients.
package csclient

import (
	"fmt"
	"strings"

	"github.com/Roadmunk/clientsuccess-go/internal/client"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// Production hosts. The events host is separate from the main API.
const (
	DefaultEndpoint       = "https://api.clientsuccess.com"
	DefaultEventsEndpoint = "https://usage.clientsuccess.com"
)

// New creates a new ClientSuccess API client. The endpoint defaults to the
// production host and is normalized (trailing slash trimmed, https scheme
// added when missing); the events endpoint is defaulted only when the
// events project ID and API key are configured. Construction performs no
// network calls — authentication happens lazily on the first request, or
// eagerly via API.Authenticate.
func New(config *clientsuccess.Config) (clientsuccess.API, error) {
	if config == nil {
		return nil, clientsuccess.ErrConfigRequired
	}

	if config.AccessToken == "" && (config.Username == "" || config.Password == "") {
		return nil, clientsuccess.ErrCredentialsRequired
	}

	// Copy before normalizing so the caller's config is left untouched.
	normalized := *config
	normalized.Endpoint = normalizeEndpoint(normalized.Endpoint, DefaultEndpoint)

	if normalized.EventsProjectID != "" && normalized.EventsAPIKey != "" {
		normalized.EventsEndpoint = normalizeEndpoint(normalized.EventsEndpoint, DefaultEventsEndpoint)
	} else {
		normalized.EventsEndpoint = ""
	}

	api, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return api, nil
}

// normalizeEndpoint applies the fallback and canonical URL form.
func normalizeEndpoint(endpoint, fallback string) string {
	if endpoint == "" {
		return fallback
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
