package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/Roadmunk/clientsuccess-go/internal/auth"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// maxAuthAttempts bounds the token-refresh loop in Do. An expired or revoked
// token is the only transient, auto-recoverable condition; everything else
// is either a caller error or a provider outage and must surface
// immediately, since silently retrying those would mask real problems and
// could duplicate side effects.
const maxAuthAttempts = 10

const defaultHTTPTimeout = 30 * time.Second

const defaultUserAgent = "clientsuccess-go"

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents one logical API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response represents an HTTP response with its raw body.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client wraps the transport with token acquisition and the 401 refresh
// loop, and translates provider failures into clientsuccess.APIError.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	httpClient   *retryablehttp.Client
	userAgent    string
	logger       Logger
	debug        bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for the HTTP client.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPTimeout sets the transport-level timeout per round trip.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables transport-level retries for connection errors and
// 5xx responses. Off by default so provider outages surface immediately.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// NewClient creates an HTTP client for the given base URL. A nil token
// manager sends requests unauthenticated (used for the events host, which
// authenticates with per-request headers instead).
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = defaultHTTPTimeout

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		httpClient:   retryClient,
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes one logical API call, transparently acquiring or refreshing
// the session token. A 401 invalidates the token and retries with a fresh
// one, up to maxAuthAttempts; it is the sole retried condition. Every other
// non-2xx response is translated to an APIError and returned immediately.
// Authentication failures from the token manager propagate untouched.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Method == "" {
		return nil, &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "request method is required"}
	}

	for attempt := 0; attempt < maxAuthAttempts; attempt++ {
		var token string

		if c.tokenManager != nil {
			var err error

			token, err = c.tokenManager.GetToken(ctx)
			if err != nil {
				return nil, fmt.Errorf("getting token: %w", err)
			}
		}

		resp, err := c.send(ctx, req, token)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if resp.StatusCode == nethttp.StatusUnauthorized && c.tokenManager != nil {
			c.tokenManager.Invalidate()

			continue
		}

		return resp, parseAPIError(resp)
	}

	return nil, &clientsuccess.APIError{
		Status:  nethttp.StatusTooManyRequests,
		Message: "too many authentication attempts",
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// send issues a single request attempt.
func (c *Client) send(ctx context.Context, req *Request, token string) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	// The provider expects the bare token in the Authorization header, no
	// Bearer prefix.
	if token != "" {
		httpReq.Header.Set("Authorization", token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": resp.StatusCode,
		})
	}

	return resp, nil
}

// parseAPIError translates a non-2xx response into an APIError, preferring
// the provider's message and userMessage fields when the body carries them.
func parseAPIError(resp *Response) error {
	apiErr := &clientsuccess.APIError{Status: resp.StatusCode}

	if len(resp.Body) > 0 {
		var payload struct {
			Message     string `json:"message"`
			UserMessage string `json:"userMessage"`
			Error       string `json:"error"`
		}

		if err := json.Unmarshal(resp.Body, &payload); err == nil {
			apiErr.Message = payload.Message
			if apiErr.Message == "" {
				apiErr.Message = payload.Error
			}

			apiErr.UserMessage = payload.UserMessage
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = nethttp.StatusText(resp.StatusCode)
	}

	return apiErr
}
