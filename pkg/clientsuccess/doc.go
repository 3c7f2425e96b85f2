// Package clientsuccess provides types, interfaces, and helpers for working
// with the ClientSuccess customer-success API.
//
// # Overview
//
// The clientsuccess package defines the domain types (Client, Contact,
// Subscription, Product, ClientType) and the interfaces for resource-oriented
// clients (ClientsClient, ContactsClient, and so on). A concrete
// implementation is provided by the csclient package, which wires
// configuration, transport, and authentication. Most consumers should import
// csclient to construct a client and then interact with the resource client
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
//	  "github.com/Roadmunk/clientsuccess-go/pkg/csclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  api, err := csclient.New(&clientsuccess.Config{
//	    Username: "user@example.com",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  c, err := api.Clients().Get(ctx, "42")
//	  if err != nil { log.Fatal(err) }
//	  _ = c
//	}
//
// # Authentication
//
// The client exchanges the configured username and password for a session
// token on the first request and attaches it to every call. A 401 response
// invalidates the token and the request is retried with a fresh one, up to a
// fixed ceiling; no other status is retried. Authentication failures from
// the auth endpoint itself propagate immediately.
//
// # Upserts
//
// The provider has no native upsert or partial update, so Upsert reconciles
// client-side: with no identifier it looks up an existing record by external
// ID (clients) or email (contacts) and creates one on a miss; with an
// identifier it fetches the current record, merges the request onto a clone,
// and skips the write entirely when nothing would change. Updates always
// read, merge, and write the whole record back because the update endpoint
// requires the complete object.
//
// # Errors
//
// All failures are represented by APIError carrying the HTTP-style status
// and the provider-supplied message. Helpers such as IsNotFound,
// IsUnauthorized, and IsValidation make it easy to branch on common cases.
// Validation errors (status 400) are raised locally before any network call.
package clientsuccess
