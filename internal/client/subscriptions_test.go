package client_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roadmunk/clientsuccess-go/internal/client"
	internalhttp "github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

func newSubscriptionsClient(t *testing.T, handler nethttp.Handler) *client.SubscriptionsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return client.NewSubscriptionsClient(internalhttp.NewClient(server.URL, nil))
}

func TestSubscriptionsGet(t *testing.T) {
	t.Parallel()

	c := newSubscriptionsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/v1/clients/42/subscriptions/9", r.URL.Path)

		_ = json.NewEncoder(w).Encode(clientsuccess.Subscription{ID: 9, ClientID: 42, Name: "Gold Plan"})
	}))

	record, err := c.Get(context.Background(), "42", "9")
	require.NoError(t, err)
	assert.Equal(t, int64(9), record.ID)
	assert.Equal(t, "Gold Plan", record.Name)
}

func TestSubscriptionsListActive(t *testing.T) {
	t.Parallel()

	c := newSubscriptionsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/v1/clients/42/active-subscriptions", r.URL.Path)

		_ = json.NewEncoder(w).Encode([]clientsuccess.Subscription{
			{ID: 9, Name: "Gold Plan", Active: true},
			{ID: 11, Name: "Support Add-on", Active: true},
		})
	}))

	records, err := c.ListActive(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Gold Plan", records[0].Name)
}

func TestSubscriptionsCreate(t *testing.T) {
	t.Parallel()

	var postBody clientsuccess.Subscription

	c := newSubscriptionsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/clients/42/subscriptions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&postBody))

		postBody.ID = 9
		_ = json.NewEncoder(w).Encode(postBody)
	}))

	name := "Gold Plan"
	amount := 1200.0

	record, err := c.Create(context.Background(), "42", &clientsuccess.SubscriptionRequest{
		Name:   &name,
		Amount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), record.ID)

	// The new subscription is seeded with the owning client.
	assert.Equal(t, int64(42), postBody.ClientID)
	assert.Equal(t, 1200.0, postBody.Amount)
}

func TestSubscriptionsUpdate(t *testing.T) {
	t.Parallel()

	var putBody clientsuccess.Subscription

	c := newSubscriptionsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.Method {
		case "GET":
			_ = json.NewEncoder(w).Encode(clientsuccess.Subscription{
				ID:       9,
				ClientID: 42,
				Name:     "Gold Plan",
				Amount:   1200,
			})
		case "PUT":
			assert.Equal(t, "/v1/clients/42/subscriptions/9", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			_ = json.NewEncoder(w).Encode(putBody)
		}
	}))

	amount := 1500.0

	record, err := c.Update(context.Background(), "42", "9", &clientsuccess.SubscriptionRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, record.Amount)
	assert.Equal(t, "Gold Plan", putBody.Name)
}

func TestSubscriptionsDelete(t *testing.T) {
	t.Parallel()

	t.Run("deletes by id", func(t *testing.T) {
		t.Parallel()

		deleted := false

		c := newSubscriptionsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			assert.Equal(t, "DELETE", r.Method)
			assert.Equal(t, "/v1/clients/42/subscriptions/9", r.URL.Path)

			deleted = true
		}))

		require.NoError(t, c.Delete(context.Background(), "42", "9"))
		assert.True(t, deleted)
	})

	t.Run("identifiers are validated locally", func(t *testing.T) {
		t.Parallel()

		c := newSubscriptionsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			t.Error("unexpected request")
		}))

		err := c.Delete(context.Background(), "42", "nine")
		require.Error(t, err)
		assert.True(t, clientsuccess.IsValidation(err))
	})
}
