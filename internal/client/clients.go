package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

const (
	clientsPath     = "/v1/clients"
	clientTypesPath = "/v1/client-types"
)

// ClientsClient implements clientsuccess.ClientsClient.
type ClientsClient struct {
	httpClient *http.Client

	// typeIDs memoizes the label-to-ID lookup on first use and is read-only
	// for the rest of the instance's life. It goes stale if the provider's
	// taxonomy changes mid-session; ListTypes always fetches fresh.
	typesMu sync.Mutex
	typeIDs map[string]int64
}

// NewClientsClient creates a new clients client.
func NewClientsClient(httpClient *http.Client) *ClientsClient {
	return &ClientsClient{
		httpClient: httpClient,
	}
}

// Get implements clientsuccess.ClientsClient.Get.
func (c *ClientsClient) Get(ctx context.Context, id string) (*clientsuccess.Client, error) {
	parsed, err := clientsuccess.ParseID(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, clientsPath+"/"+clientsuccess.FormatID(parsed), nil)
	if err != nil {
		return nil, fmt.Errorf("getting client: %w", err)
	}

	var record clientsuccess.Client

	err = json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing client: %w", err)
	}

	return &record, nil
}

// GetByExternalID implements clientsuccess.ClientsClient.GetByExternalID.
func (c *ClientsClient) GetByExternalID(ctx context.Context, externalID string) (*clientsuccess.Client, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "externalId is required"}
	}

	query := url.Values{"externalId": []string{externalID}}

	resp, err := c.httpClient.Get(ctx, clientsPath, query)
	if err != nil {
		return nil, fmt.Errorf("getting client by external id: %w", err)
	}

	var record clientsuccess.Client

	err = json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing client: %w", err)
	}

	return &record, nil
}

// Create implements clientsuccess.ClientsClient.Create. The create endpoint
// cannot set custom fields atomically, so when the request carries any they
// are patched in with an immediate follow-up update. The returned record is
// re-fetched in full because the create response reports placeholder nulls
// for custom-field values.
func (c *ClientsClient) Create(ctx context.Context, request *clientsuccess.ClientRequest) (*clientsuccess.Client, error) {
	record := &clientsuccess.Client{}
	applyClientRequest(record, request)

	resp, err := c.httpClient.Post(ctx, clientsPath, record)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	var created clientsuccess.Client

	err = json.Unmarshal(resp.Body, &created)
	if err != nil {
		return nil, fmt.Errorf("parsing created client: %w", err)
	}

	id := clientsuccess.FormatID(created.ID)

	if request != nil && len(request.CustomFields) > 0 {
		_, err = c.Update(ctx, id, &clientsuccess.ClientRequest{CustomFields: request.CustomFields})
		if err != nil {
			return nil, fmt.Errorf("patching custom fields on created client: %w", err)
		}
	}

	return c.Get(ctx, id)
}

// Update implements clientsuccess.ClientsClient.Update. The update endpoint
// requires the complete record rather than a partial patch, so every update
// fetches the current record, merges the request onto it, and writes the
// whole object back.
func (c *ClientsClient) Update(ctx context.Context, id string, request *clientsuccess.ClientRequest) (*clientsuccess.Client, error) {
	current, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := current.Clone()
	applyClientRequest(merged, request)

	if request != nil {
		clientsuccess.ApplyCustomFields(merged.CustomFields, request.CustomFields)
	}

	return c.put(ctx, merged)
}

// Upsert implements clientsuccess.ClientsClient.Upsert. With no client ID
// (an empty or blank string counts as absent) it delegates to the
// lookup-or-create path keyed on the request's external ID. With an ID it
// fetches the current record, merges onto a clone, and suppresses the write
// when the merge would not change the stored record.
func (c *ClientsClient) Upsert(ctx context.Context, request *clientsuccess.ClientUpsertRequest) (*clientsuccess.Client, error) {
	if strings.TrimSpace(request.ClientID) == "" {
		return c.reconcile(ctx, request)
	}

	current, err := c.Get(ctx, request.ClientID)
	if err != nil {
		return nil, err
	}

	merged := current.Clone()
	applyClientRequest(merged, &request.ClientRequest)
	clientsuccess.ApplyCustomFields(merged.CustomFields, request.CustomFields)

	if reflect.DeepEqual(current, merged) {
		return current, nil
	}

	return c.put(ctx, merged)
}

// reconcile handles the identifier-less upsert: find an existing record by
// external ID and merge onto it, or create a new one when the search misses.
func (c *ClientsClient) reconcile(ctx context.Context, request *clientsuccess.ClientUpsertRequest) (*clientsuccess.Client, error) {
	if request.ExternalID != nil && strings.TrimSpace(*request.ExternalID) != "" {
		existing, err := c.GetByExternalID(ctx, *request.ExternalID)

		switch {
		case err == nil:
			withID := *request
			withID.ClientID = clientsuccess.FormatID(existing.ID)

			return c.Upsert(ctx, &withID)
		case !clientsuccess.IsNotFound(err):
			return nil, err
		}
		// Not found: fall through to create.
	}

	return c.Create(ctx, &request.ClientRequest)
}

// Close implements clientsuccess.ClientsClient.Close. The provider has no
// dedicated close endpoint; closing is an update that sets the terminated
// status.
func (c *ClientsClient) Close(ctx context.Context, id string) (*clientsuccess.Client, error) {
	status := clientsuccess.ClientStatusTerminated

	return c.Update(ctx, id, &clientsuccess.ClientRequest{StatusID: &status})
}

// Delete implements clientsuccess.ClientsClient.Delete.
func (c *ClientsClient) Delete(ctx context.Context, id string) error {
	parsed, err := clientsuccess.ParseID(id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, clientsPath+"/"+clientsuccess.FormatID(parsed))
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	return nil
}

// ListTypes implements clientsuccess.ClientsClient.ListTypes. Unlike TypeID
// it always fetches fresh.
func (c *ClientsClient) ListTypes(ctx context.Context) ([]clientsuccess.ClientType, error) {
	resp, err := c.httpClient.Get(ctx, clientTypesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing client types: %w", err)
	}

	var types []clientsuccess.ClientType

	err = json.Unmarshal(resp.Body, &types)
	if err != nil {
		return nil, fmt.Errorf("parsing client types: %w", err)
	}

	return types, nil
}

// TypeID implements clientsuccess.ClientsClient.TypeID.
func (c *ClientsClient) TypeID(ctx context.Context, label string) (int64, error) {
	c.typesMu.Lock()
	defer c.typesMu.Unlock()

	if c.typeIDs == nil {
		types, err := c.ListTypes(ctx)
		if err != nil {
			return 0, err
		}

		c.typeIDs = make(map[string]int64, len(types))
		for _, clientType := range types {
			c.typeIDs[clientType.Type] = clientType.ID
		}
	}

	id, ok := c.typeIDs[label]
	if !ok {
		return 0, &clientsuccess.APIError{
			Status:  nethttp.StatusNotFound,
			Message: fmt.Sprintf("client type %q not found", label),
		}
	}

	return id, nil
}

// put writes the complete record back and returns the provider's view of it.
func (c *ClientsClient) put(ctx context.Context, record *clientsuccess.Client) (*clientsuccess.Client, error) {
	resp, err := c.httpClient.Put(ctx, clientsPath+"/"+clientsuccess.FormatID(record.ID), record)
	if err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}

	var updated clientsuccess.Client

	err = json.Unmarshal(resp.Body, &updated)
	if err != nil {
		return nil, fmt.Errorf("parsing updated client: %w", err)
	}

	return &updated, nil
}

// applyClientRequest merges the request's non-nil attributes onto a record.
// Custom fields are patched separately by ApplyCustomFields.
func applyClientRequest(record *clientsuccess.Client, request *clientsuccess.ClientRequest) {
	if request == nil {
		return
	}

	if request.Name != nil {
		record.Name = *request.Name
	}

	if request.ExternalID != nil {
		record.ExternalID = *request.ExternalID
	}

	if request.StatusID != nil {
		record.StatusID = *request.StatusID
	}

	if request.ClientTypeID != nil {
		record.ClientTypeID = *request.ClientTypeID
	}

	if request.SiteURL != nil {
		record.SiteURL = *request.SiteURL
	}

	if request.ManagedByEmployeeID != nil {
		record.ManagedByEmployeeID = *request.ManagedByEmployeeID
	}

	if request.TenureStartDate != nil {
		record.TenureStartDate = *request.TenureStartDate
	}
}
