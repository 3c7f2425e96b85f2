package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

const eventsPath = "/collector/events"

// ActivitiesClient implements clientsuccess.ActivitiesClient against the
// separate events host. Events authenticate with project headers instead of
// the session token.
type ActivitiesClient struct {
	httpClient *http.Client
	projectID  string
	apiKey     string
}

// NewActivitiesClient creates a new activities client. httpClient may be
// nil when the events endpoint is not configured; Track then fails with a
// 400-class error.
func NewActivitiesClient(httpClient *http.Client, projectID, apiKey string) *ActivitiesClient {
	return &ActivitiesClient{
		httpClient: httpClient,
		projectID:  projectID,
		apiKey:     apiKey,
	}
}

// Track implements clientsuccess.ActivitiesClient.Track. Occurrences
// defaults to 1 and Timestamp to the current time when unset; the caller's
// Activity is not mutated.
func (c *ActivitiesClient) Track(ctx context.Context, activity *clientsuccess.Activity) error {
	if c.httpClient == nil || c.projectID == "" || c.apiKey == "" {
		return &clientsuccess.APIError{
			Status:  nethttp.StatusBadRequest,
			Message: clientsuccess.ErrEventsNotConfigured.Error(),
		}
	}

	if activity == nil || strings.TrimSpace(activity.Activity) == "" {
		return &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "activity name is required"}
	}

	_, err := clientsuccess.ParseID(activity.ClientID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(activity.ContactID) != "" {
		_, err = clientsuccess.ParseID(activity.ContactID)
		if err != nil {
			return err
		}
	}

	payload := *activity

	if payload.Occurrences == 0 {
		payload.Occurrences = 1
	}

	if payload.Timestamp == nil {
		now := time.Now().UTC()
		payload.Timestamp = &now
	}

	req := &http.Request{
		Method: nethttp.MethodPost,
		Path:   eventsPath,
		Body:   &payload,
		Headers: map[string]string{
			"project-id": c.projectID,
			"api-key":    c.apiKey,
		},
	}

	_, err = c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("tracking activity: %w", err)
	}

	return nil
}
