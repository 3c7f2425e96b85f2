package clientsuccess

import (
	"context"
	"time"
)

// ClientsClient provides access to client (account) records.
type ClientsClient interface {
	Get(ctx context.Context, id string) (*Client, error)
	GetByExternalID(ctx context.Context, externalID string) (*Client, error)
	Create(ctx context.Context, request *ClientRequest) (*Client, error)
	Update(ctx context.Context, id string, request *ClientRequest) (*Client, error)
	Upsert(ctx context.Context, request *ClientUpsertRequest) (*Client, error)
	Close(ctx context.Context, id string) (*Client, error)
	Delete(ctx context.Context, id string) error
	ListTypes(ctx context.Context) ([]ClientType, error)
	TypeID(ctx context.Context, label string) (int64, error)
}

// ContactsClient provides access to contact records scoped under a client.
type ContactsClient interface {
	Get(ctx context.Context, clientID, contactID string) (*Contact, error)
	GetByEmail(ctx context.Context, clientExternalID, email string) (*Contact, error)
	Create(ctx context.Context, clientID string, request *ContactRequest) (*Contact, error)
	Update(ctx context.Context, clientID, contactID string, request *ContactRequest) (*Contact, error)
	Upsert(ctx context.Context, request *ContactUpsertRequest) (*Contact, error)
	Delete(ctx context.Context, clientID, contactID string) error
}

// SubscriptionsClient provides access to subscriptions under a client.
type SubscriptionsClient interface {
	Get(ctx context.Context, clientID, subscriptionID string) (*Subscription, error)
	ListActive(ctx context.Context, clientID string) ([]Subscription, error)
	Create(ctx context.Context, clientID string, request *SubscriptionRequest) (*Subscription, error)
	Update(ctx context.Context, clientID, subscriptionID string, request *SubscriptionRequest) (*Subscription, error)
	Delete(ctx context.Context, clientID, subscriptionID string) error
}

// ProductsClient provides access to product types.
type ProductsClient interface {
	List(ctx context.Context) ([]Product, error)
	IDByName(ctx context.Context, name string) (int64, error)
	CreateType(ctx context.Context, name string, opts *ProductTypeOptions) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// ActivitiesClient tracks usage events against the separate events host.
type ActivitiesClient interface {
	Track(ctx context.Context, activity *Activity) error
}

// API is the full client surface. A concrete implementation is constructed
// by the csclient package.
type API interface {
	// Authenticate eagerly exchanges the configured credentials for a
	// session token. Resource operations authenticate lazily, so calling
	// this is only needed to validate credentials up front.
	Authenticate(ctx context.Context) error

	// Token returns the current session token, authenticating first if no
	// token is live.
	Token(ctx context.Context) (string, error)

	Clients() ClientsClient
	Contacts() ContactsClient
	Subscriptions() SubscriptionsClient
	Products() ProductsClient
	Activities() ActivitiesClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an API client.
//
// A client instance exclusively owns its session token and client-type
// cache; nothing is shared across instances or persisted. The instance is
// designed for one logical caller at a time: the token store itself is
// mutex-guarded, but concurrent calls can still interleave so that one
// call's 401-triggered token invalidation discards a token another call
// just obtained. That is an accepted limitation, not a safe-for-parallelism
// guarantee.
type Config struct {
	// Endpoint is the base URL for the main API. csclient.New applies the
	// production default when empty, trims a trailing slash, and adds
	// "https://" if no scheme is present.
	Endpoint string

	// Username and Password are exchanged for a session token at the auth
	// endpoint. Required unless AccessToken is set.
	Username string
	Password string

	// AccessToken, if set, is used directly as the session token and the
	// password exchange is skipped. A 401 then cannot be recovered by
	// re-authentication, so the token-refresh loop will exhaust and fail
	// with a 429-class error.
	AccessToken string

	// EventsEndpoint, EventsProjectID, and EventsAPIKey configure the
	// activity-tracking sub-feature, which lives on a separate host and
	// authenticates with project headers instead of the session token.
	// Activities().Track fails with a 400-class error when the project ID
	// or API key is missing.
	EventsEndpoint  string
	EventsProjectID string
	EventsAPIKey    string

	// HTTPTimeout bounds each request round trip. Per-call deadlines should
	// generally be set via context; this is the transport-level backstop.
	HTTPTimeout time.Duration

	// RetryMax enables transport-level retries for connection errors and
	// 5xx responses. The default of 0 keeps provider outages (503) surfacing
	// immediately rather than being silently retried.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool

	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
