package clientsuccess

import (
	"time"
)

// ClientStatusTerminated is the provider's status ID for a closed client.
const ClientStatusTerminated = "4"

// CustomFieldValue is one entry in a record's custom-field sequence. The
// sequence order is provider-assigned and stable across reads; Label is the
// unique join key used for patching, not the positional index.
type CustomFieldValue struct {
	ID    int64       `json:"id,omitempty"`
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// Client represents the provider's top-level account/organization record.
type Client struct {
	ID                  int64              `json:"id,omitempty"`
	Name                string             `json:"name,omitempty"`
	ExternalID          string             `json:"externalId,omitempty"`
	StatusID            string             `json:"statusId,omitempty"`
	ClientTypeID        int64              `json:"clientTypeId,omitempty"`
	SiteURL             string             `json:"siteUrl,omitempty"`
	ManagedByEmployeeID int64              `json:"managedByEmployeeId,omitempty"`
	TenureStartDate     string             `json:"tenureStartDate,omitempty"`
	CustomFields        []CustomFieldValue `json:"customFieldValues,omitempty"`
}

// Clone returns a deep copy. Update and upsert paths merge onto a clone so
// the original fetched record stays untouched for the no-op comparison.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}

	clone := *c
	clone.CustomFields = cloneCustomFields(c.CustomFields)

	return &clone
}

// Contact represents a person record scoped under a Client.
type Contact struct {
	ID           int64              `json:"id,omitempty"`
	ClientID     int64              `json:"clientId,omitempty"`
	FirstName    string             `json:"firstName,omitempty"`
	LastName     string             `json:"lastName,omitempty"`
	Email        string             `json:"email,omitempty"`
	Title        string             `json:"title,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Note         string             `json:"note,omitempty"`
	CustomFields []CustomFieldValue `json:"customFieldValues,omitempty"`
}

// Clone returns a deep copy.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}

	clone := *c
	clone.CustomFields = cloneCustomFields(c.CustomFields)

	return &clone
}

// Subscription represents a revenue subscription under a Client.
type Subscription struct {
	ID        int64   `json:"id,omitempty"`
	ClientID  int64   `json:"clientId,omitempty"`
	ProductID int64   `json:"productId,omitempty"`
	Name      string  `json:"name,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
	StartDate string  `json:"startDate,omitempty"`
	EndDate   string  `json:"endDate,omitempty"`
	AutoRenew bool    `json:"autoRenew,omitempty"`
	Active    bool    `json:"isActive,omitempty"`
}

// Product represents a product type a subscription can reference.
type Product struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring,omitempty"`
}

// ClientType is one entry of the provider-configured client taxonomy.
type ClientType struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Activity describes one usage event for the activity-tracking endpoint.
// Occurrences defaults to 1 and Timestamp to the current time when unset.
type Activity struct {
	ClientID    string     `json:"clientId"`
	ContactID   string     `json:"contactId,omitempty"`
	Activity    string     `json:"activity"`
	Occurrences int        `json:"occurrences,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// ClientRequest carries the optional attributes applied by create, update,
// and upsert operations. Nil fields are left untouched on the stored record.
// CustomFields maps provider-configured custom-field labels to desired
// values; see ApplyCustomFields for the matching rules.
type ClientRequest struct {
	Name                *string
	ExternalID          *string
	StatusID            *string
	ClientTypeID        *int64
	SiteURL             *string
	ManagedByEmployeeID *int64
	TenureStartDate     *string
	CustomFields        map[string]interface{}
}

// ClientUpsertRequest selects the upsert target. An empty ClientID (blank
// strings included) routes to the lookup-or-create path keyed on the
// request's ExternalID; a present ClientID routes to the read-merge-compare
// update path.
type ClientUpsertRequest struct {
	ClientID string
	ClientRequest
}

// ContactRequest carries the optional attributes for contact writes.
type ContactRequest struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Title        *string
	Phone        *string
	Note         *string
	CustomFields map[string]interface{}
}

// ContactUpsertRequest selects the contact upsert target. ClientID is
// required; an empty ContactID routes to the lookup-or-create path keyed on
// the request's Email within that client.
type ContactUpsertRequest struct {
	ClientID  string
	ContactID string
	ContactRequest
}

// SubscriptionRequest carries the optional attributes for subscription writes.
type SubscriptionRequest struct {
	Name      *string
	ProductID *int64
	Amount    *float64
	Quantity  *int
	StartDate *string
	EndDate   *string
	AutoRenew *bool
}

// ProductTypeOptions holds the optional settings for creating a product type.
type ProductTypeOptions struct {
	Recurring bool
}

func cloneCustomFields(fields []CustomFieldValue) []CustomFieldValue {
	if fields == nil {
		return nil
	}

	out := make([]CustomFieldValue, len(fields))
	copy(out, fields)

	return out
}
