package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/Roadmunk/clientsuccess-go/internal/http"
	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

const contactsSearchPath = "/v1/contacts"

// ContactsClient implements clientsuccess.ContactsClient.
type ContactsClient struct {
	httpClient *http.Client
}

// NewContactsClient creates a new contacts client.
func NewContactsClient(httpClient *http.Client) *ContactsClient {
	return &ContactsClient{
		httpClient: httpClient,
	}
}

// contactsPath returns the contact collection path under a client. The
// client ID must already be validated.
func contactsPath(clientID string) string {
	return clientsPath + "/" + clientID + "/contacts"
}

// Get implements clientsuccess.ContactsClient.Get. Ownership is checked by
// the provider: a contact that exists under a different client comes back
// as a 404, not as the record.
func (c *ContactsClient) Get(ctx context.Context, clientID, contactID string) (*clientsuccess.Contact, error) {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return nil, err
	}

	parsedContact, err := clientsuccess.ParseID(contactID)
	if err != nil {
		return nil, err
	}

	path := contactsPath(clientsuccess.FormatID(parsedClient)) + "/" + clientsuccess.FormatID(parsedContact)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting contact: %w", err)
	}

	var record clientsuccess.Contact

	err = json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing contact: %w", err)
	}

	return &record, nil
}

// GetByEmail implements clientsuccess.ContactsClient.GetByEmail. The search
// endpoint is keyed on the owning client's external ID rather than its
// numeric ID.
func (c *ContactsClient) GetByEmail(ctx context.Context, clientExternalID, email string) (*clientsuccess.Contact, error) {
	if strings.TrimSpace(clientExternalID) == "" {
		return nil, &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "clientExternalId is required"}
	}

	if strings.TrimSpace(email) == "" {
		return nil, &clientsuccess.APIError{Status: nethttp.StatusBadRequest, Message: "email is required"}
	}

	query := url.Values{
		"clientExternalId": []string{clientExternalID},
		"email":            []string{email},
	}

	resp, err := c.httpClient.Get(ctx, contactsSearchPath, query)
	if err != nil {
		return nil, fmt.Errorf("getting contact by email: %w", err)
	}

	var record clientsuccess.Contact

	err = json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing contact: %w", err)
	}

	return &record, nil
}

// Create implements clientsuccess.ContactsClient.Create. Like client
// creation, custom fields need a follow-up update and the result is
// re-fetched so the returned record carries real custom-field values.
func (c *ContactsClient) Create(ctx context.Context, clientID string, request *clientsuccess.ContactRequest) (*clientsuccess.Contact, error) {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return nil, err
	}

	record := &clientsuccess.Contact{}
	applyContactRequest(record, request)

	clientPath := clientsuccess.FormatID(parsedClient)

	resp, err := c.httpClient.Post(ctx, contactsPath(clientPath), record)
	if err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	var created clientsuccess.Contact

	err = json.Unmarshal(resp.Body, &created)
	if err != nil {
		return nil, fmt.Errorf("parsing created contact: %w", err)
	}

	contactID := clientsuccess.FormatID(created.ID)

	if request != nil && len(request.CustomFields) > 0 {
		_, err = c.Update(ctx, clientPath, contactID, &clientsuccess.ContactRequest{CustomFields: request.CustomFields})
		if err != nil {
			return nil, fmt.Errorf("patching custom fields on created contact: %w", err)
		}
	}

	return c.Get(ctx, clientPath, contactID)
}

// Update implements clientsuccess.ContactsClient.Update via
// read-merge-write; the update endpoint needs the complete record.
func (c *ContactsClient) Update(ctx context.Context, clientID, contactID string, request *clientsuccess.ContactRequest) (*clientsuccess.Contact, error) {
	current, err := c.Get(ctx, clientID, contactID)
	if err != nil {
		return nil, err
	}

	merged := current.Clone()
	applyContactRequest(merged, request)

	if request != nil {
		clientsuccess.ApplyCustomFields(merged.CustomFields, request.CustomFields)
	}

	return c.put(ctx, clientID, merged)
}

// Upsert implements clientsuccess.ContactsClient.Upsert. ClientID is
// required and validated before any network call. With no contact ID the
// request's email is the lookup key within that client; with an ID the
// merge-compare path suppresses no-op writes.
func (c *ContactsClient) Upsert(ctx context.Context, request *clientsuccess.ContactUpsertRequest) (*clientsuccess.Contact, error) {
	_, err := clientsuccess.ParseID(request.ClientID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(request.ContactID) == "" {
		return c.reconcile(ctx, request)
	}

	current, err := c.Get(ctx, request.ClientID, request.ContactID)
	if err != nil {
		return nil, err
	}

	merged := current.Clone()
	applyContactRequest(merged, &request.ContactRequest)
	clientsuccess.ApplyCustomFields(merged.CustomFields, request.CustomFields)

	if reflect.DeepEqual(current, merged) {
		return current, nil
	}

	return c.put(ctx, request.ClientID, merged)
}

// reconcile handles the identifier-less contact upsert: find an existing
// contact by email within the client, or create one when the search misses.
func (c *ContactsClient) reconcile(ctx context.Context, request *clientsuccess.ContactUpsertRequest) (*clientsuccess.Contact, error) {
	if request.Email != nil && strings.TrimSpace(*request.Email) != "" {
		existing, err := c.findByEmail(ctx, request.ClientID, *request.Email)

		switch {
		case err == nil:
			withID := *request
			withID.ContactID = clientsuccess.FormatID(existing.ID)

			return c.Upsert(ctx, &withID)
		case !clientsuccess.IsNotFound(err):
			return nil, err
		}
		// Not found: fall through to create.
	}

	return c.Create(ctx, request.ClientID, &request.ContactRequest)
}

// findByEmail searches the client-scoped collection for a contact with the
// given email. A 404 means no match, which reconcile treats as the create
// branch rather than a failure.
func (c *ContactsClient) findByEmail(ctx context.Context, clientID, email string) (*clientsuccess.Contact, error) {
	query := url.Values{"email": []string{email}}

	resp, err := c.httpClient.Get(ctx, contactsPath(clientID), query)
	if err != nil {
		return nil, fmt.Errorf("searching contact by email: %w", err)
	}

	var record clientsuccess.Contact

	err = json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing contact: %w", err)
	}

	return &record, nil
}

// Delete implements clientsuccess.ContactsClient.Delete.
func (c *ContactsClient) Delete(ctx context.Context, clientID, contactID string) error {
	parsedClient, err := clientsuccess.ParseID(clientID)
	if err != nil {
		return err
	}

	parsedContact, err := clientsuccess.ParseID(contactID)
	if err != nil {
		return err
	}

	path := contactsPath(clientsuccess.FormatID(parsedClient)) + "/" + clientsuccess.FormatID(parsedContact)

	_, err = c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}

	return nil
}

// put writes the complete contact record back.
func (c *ContactsClient) put(ctx context.Context, clientID string, record *clientsuccess.Contact) (*clientsuccess.Contact, error) {
	path := contactsPath(clientID) + "/" + clientsuccess.FormatID(record.ID)

	resp, err := c.httpClient.Put(ctx, path, record)
	if err != nil {
		return nil, fmt.Errorf("updating contact: %w", err)
	}

	var updated clientsuccess.Contact

	err = json.Unmarshal(resp.Body, &updated)
	if err != nil {
		return nil, fmt.Errorf("parsing updated contact: %w", err)
	}

	return &updated, nil
}

// applyContactRequest merges the request's non-nil attributes onto a record.
func applyContactRequest(record *clientsuccess.Contact, request *clientsuccess.ContactRequest) {
	if request == nil {
		return
	}

	if request.FirstName != nil {
		record.FirstName = *request.FirstName
	}

	if request.LastName != nil {
		record.LastName = *request.LastName
	}

	if request.Email != nil {
		record.Email = *request.Email
	}

	if request.Title != nil {
		record.Title = *request.Title
	}

	if request.Phone != nil {
		record.Phone = *request.Phone
	}

	if request.Note != nil {
		record.Note = *request.Note
	}
}
