package client

import (
	"context"
	"fmt"

	"github.com/Roadmunk/clientsuccess-go/internal/auth"
	"github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// authPath is the credential-exchange endpoint on the main API host.
const authPath = "/v1/auth"

// Client implements the clientsuccess.API interface.
type Client struct {
	httpClient   *http.Client
	eventsClient *http.Client
	tokenManager auth.TokenManager
	logger       clientsuccess.Logger

	clients       *ClientsClient
	contacts      *ContactsClient
	subscriptions *SubscriptionsClient
	products      *ProductsClient
	activities    *ActivitiesClient
}

// New creates an API client from a validated, normalized config. Endpoint
// normalization and defaulting belong to the csclient facade; this
// constructor wires the token manager, transports, and resource clients.
func New(config *clientsuccess.Config) (*Client, error) {
	if config == nil {
		return nil, clientsuccess.ErrConfigRequired
	}

	tokenManager := createTokenManager(config)
	if tokenManager == nil {
		return nil, clientsuccess.ErrCredentialsRequired
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.Endpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		logger:       config.Logger,
	}

	// The events host authenticates with per-request project headers, not
	// the session token, so it gets its own transport without a manager.
	if config.EventsEndpoint != "" {
		client.eventsClient = http.NewClient(config.EventsEndpoint, nil, httpOpts...)
	}

	client.initializeResourceClients(config)

	return client, nil
}

// createTokenManager picks the token manager for the configured credentials.
func createTokenManager(config *clientsuccess.Config) auth.TokenManager {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	if config.Username != "" && config.Password != "" {
		return auth.NewPasswordTokenManager(&auth.PasswordConfig{
			AuthURL:   config.Endpoint + authPath,
			Username:  config.Username,
			Password:  config.Password,
			UserAgent: config.UserAgent,
		})
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *clientsuccess.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients(config *clientsuccess.Config) {
	c.clients = NewClientsClient(c.httpClient)
	c.contacts = NewContactsClient(c.httpClient)
	c.subscriptions = NewSubscriptionsClient(c.httpClient)
	c.products = NewProductsClient(c.httpClient)
	c.activities = NewActivitiesClient(c.eventsClient, config.EventsProjectID, config.EventsAPIKey)
}

// Authenticate implements clientsuccess.API.Authenticate.
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	return nil
}

// Token implements clientsuccess.API.Token.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// Clients implements clientsuccess.API.Clients.
func (c *Client) Clients() clientsuccess.ClientsClient {
	return c.clients
}

// Contacts implements clientsuccess.API.Contacts.
func (c *Client) Contacts() clientsuccess.ContactsClient {
	return c.contacts
}

// Subscriptions implements clientsuccess.API.Subscriptions.
func (c *Client) Subscriptions() clientsuccess.SubscriptionsClient {
	return c.subscriptions
}

// Products implements clientsuccess.API.Products.
func (c *Client) Products() clientsuccess.ProductsClient {
	return c.products
}

// Activities implements clientsuccess.API.Activities.
func (c *Client) Activities() clientsuccess.ActivitiesClient {
	return c.activities
}
