package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

const productsPath = "/v1/products"

// ProductsClient implements clientsuccess.ProductsClient.
type ProductsClient struct {
	httpClient *http.Client
}

// NewProductsClient creates a new products client.
func NewProductsClient(httpClient *http.Client) *ProductsClient {
	return &ProductsClient{
		httpClient: httpClient,
	}
}

// List implements clientsuccess.ProductsClient.List.
func (c *ProductsClient) List(ctx context.Context) ([]clientsuccess.Product, error) {
	resp, err := c.httpClient.Get(ctx, productsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	var records []clientsuccess.Product

	err = json.Unmarshal(resp.Body, &records)
	if err != nil {
		return nil, fmt.Errorf("parsing products: %w", err)
	}

	return records, nil
}

// IDByName implements clientsuccess.ProductsClient.IDByName. The provider
// has no by-name endpoint, so this lists and matches locally. Not memoized:
// only the client-type lookup is cached (see ClientsClient.TypeID).
func (c *ProductsClient) IDByName(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "product name is required"}
	}

	products, err := c.List(ctx)
	if err != nil {
		return 0, err
	}

	for _, product := range products {
		if product.Name == name {
			return product.ID, nil
		}
	}

	return 0, &clientsuccess.APIError{
		Status:  nethttp.StatusNotFound,
		Message: fmt.Sprintf("product %q not found", name),
	}
}

// CreateType implements clientsuccess.ProductsClient.CreateType.
func (c *ProductsClient) CreateType(ctx context.Context, name string, opts *clientsuccess.ProductTypeOptions) (*clientsuccess.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "product name is required"}
	}

	record := &clientsuccess.Product{Name: name}
	if opts != nil {
		record.Recurring = opts.Recurring
	}

	resp, err := c.httpClient.Post(ctx, productsPath, record)
	if err != nil {
		return nil, fmt.Errorf("creating product type: %w", err)
	}

	var created clientsuccess.Product

	err = json.Unmarshal(resp.Body, &created)
	if err != nil {
		return nil, fmt.Errorf("parsing created product: %w", err)
	}

	return &created, nil
}

// Delete implements clientsuccess.ProductsClient.Delete.
func (c *ProductsClient) Delete(ctx context.Context, id string) error {
	parsed, err := clientsuccess.ParseID(id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, productsPath+"/"+clientsuccess.FormatID(parsed))
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return nil
}
