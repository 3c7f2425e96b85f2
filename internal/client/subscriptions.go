package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// SubscriptionsClient implements clientsuccess.SubscriptionsClient.
type SubscriptionsClient struct {
	httpClient *http.Client
}

// NewSubscriptionsClient creates a new subscriptions client.
func NewSubscriptionsClient(httpClient *http.Client) *SubscriptionsClient {
	return &SubscriptionsClient{
		httpClient: httpClient,
	}
}

func subscriptionsPath(clientID string) string {
	return clientsPath + "/" + clientID + "/subscriptions"
}

// Get implements clientsuccess.SubscriptionsClient.Get.
func (c *SubscriptionsClient) Get(ctx context.Context, clientID, subscriptionID string) (*clientsuccess.Subscription, error) {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return nil, err
	}

	parsedSubscription, err := clientsuccess.ParseID(subscriptionID)
	if err != nil {
		return nil, err
	}

	path := subscriptionsPath(clientsuccess.FormatID(parsedClient)) + "/" + clientsuccess.FormatID(parsedSubscription)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	var record clientsuccess.Subscription

	err = json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription: %w", err)
	}

	return &record, nil
}

// ListActive implements clientsuccess.SubscriptionsClient.ListActive.
func (c *SubscriptionsClient) ListActive(ctx context.Context, clientID string) ([]clientsuccess.Subscription, error) {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return nil, err
	}

	path := clientsPath + "/" + clientsuccess.FormatID(parsedClient) + "/active-subscriptions"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing active subscriptions: %w", err)
	}

	var records []clientsuccess.Subscription

	err = json.Unmarshal(resp.Body, &records)
	if err != nil {
		return nil, fmt.Errorf("parsing subscriptions: %w", err)
	}

	return records, nil
}

// Create implements clientsuccess.SubscriptionsClient.Create.
func (c *SubscriptionsClient) Create(ctx context.Context, clientID string, request *clientsuccess.SubscriptionRequest) (*clientsuccess.Subscription, error) {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return nil, err
	}

	record := &clientsuccess.Subscription{ClientID: parsedClient}
	applySubscriptionRequest(record, request)

	resp, err := c.httpClient.Post(ctx, subscriptionsPath(clientsuccess.FormatID(parsedClient)), record)
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	var created clientsuccess.Subscription

	err = json.Unmarshal(resp.Body, &created)
	if err != nil {
		return nil, fmt.Errorf("parsing created subscription: %w", err)
	}

	return &created, nil
}

// Update implements clientsuccess.SubscriptionsClient.Update via
// read-merge-write, like every other update against this API.
func (c *SubscriptionsClient) Update(ctx context.Context, clientID, subscriptionID string, request *clientsuccess.SubscriptionRequest) (*clientsuccess.Subscription, error) {
	current, err := c.Get(ctx, clientID, subscriptionID)
	if err != nil {
		return nil, err
	}

	merged := *current
	applySubscriptionRequest(&merged, request)

	path := subscriptionsPath(clientID) + "/" + clientsuccess.FormatID(merged.ID)

	resp, err := c.httpClient.Put(ctx, path, &merged)
	if err != nil {
		return nil, fmt.Errorf("updating subscription: %w", err)
	}

	var updated clientsuccess.Subscription

	err = json.Unmarshal(resp.Body, &updated)
	if err != nil {
		return nil, fmt.Errorf("parsing updated subscription: %w", err)
	}

	return &updated, nil
}

// Delete implements clientsuccess.SubscriptionsClient.Delete.
func (c *SubscriptionsClient) Delete(ctx context.Context, clientID, subscriptionID string) error {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return err
	}

	parsedSubscription, err := clientsuccess.ParseID(subscriptionID)
	if err != nil {
		return err
	}

	path := subscriptionsPath(clientsuccess.FormatID(parsedClient)) + "/" + clientsuccess.FormatID(parsedSubscription)

	_, err = c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}

	return nil
}

func applySubscriptionRequest(record *clientsuccess.Subscription, request *clientsuccess.SubscriptionRequest) {
	if request == nil {
		return
	}

	if request.Name != nil {
		record.Name = *request.Name
	}

	if request.ProductID != nil {
		record.ProductID = *request.ProductID
	}

	if request.Amount != nil {
		record.Amount = *request.Amount
	}

	if request.Quantity != nil {
		record.Quantity = *request.Quantity
	}

	if request.StartDate != nil {
		record.StartDate = *request.StartDate
	}

	if request.EndDate != nil {
		record.EndDate = *request.EndDate
	}

	if request.AutoRenew != nil {
		record.AutoRenew = *request.AutoRenew
	}
}
