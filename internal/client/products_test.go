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

func newProductsClient(t *testing.T, handler nethttp.Handler) *client.ProductsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return client.NewProductsClient(internalhttp.NewClient(server.URL, nil))
}

func TestProductsList(t *testing.T) {
	t.Parallel()

	c := newProductsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/v1/products", r.URL.Path)

		_ = json.NewEncoder(w).Encode([]clientsuccess.Product{
			{ID: 1, Name: "Platform", Recurring: true},
			{ID: 2, Name: "Onboarding"},
		})
	}))

	records, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Recurring)
}

func TestProductsIDByName(t *testing.T) {
	t.Parallel()

	t.Run("matches by exact name", func(t *testing.T) {
		t.Parallel()

		c := newProductsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_ = json.NewEncoder(w).Encode([]clientsuccess.Product{
				{ID: 1, Name: "Platform"},
				{ID: 2, Name: "Onboarding"},
			})
		}))

		id, err := c.IDByName(context.Background(), "Onboarding")
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		t.Parallel()

		c := newProductsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_ = json.NewEncoder(w).Encode([]clientsuccess.Product{})
		}))

		_, err := c.IDByName(context.Background(), "Ghost")
		require.Error(t, err)
		assert.True(t, clientsuccess.IsNotFound(err))
	})

	t.Run("blank name is rejected locally", func(t *testing.T) {
		t.Parallel()

		c := newProductsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			t.Error("unexpected request")
		}))

		_, err := c.IDByName(context.Background(), " ")
		require.Error(t, err)
		assert.True(t, clientsuccess.IsValidation(err))
	})
}

func TestProductsCreateType(t *testing.T) {
	t.Parallel()

	var postBody clientsuccess.Product

	c := newProductsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/products", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&postBody))

		postBody.ID = 3
		_ = json.NewEncoder(w).Encode(postBody)
	}))

	record, err := c.CreateType(context.Background(), "Premium Support", &clientsuccess.ProductTypeOptions{Recurring: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.ID)
	assert.Equal(t, "Premium Support", postBody.Name)
	assert.True(t, postBody.Recurring)
}

func TestProductsDelete(t *testing.T) {
	t.Parallel()

	deleted := false

	c := newProductsClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/v1/products/3", r.URL.Path)

		deleted = true
	}))

	require.NoError(t, c.Delete(context.Background(), "3"))
	assert.True(t, deleted)
}
