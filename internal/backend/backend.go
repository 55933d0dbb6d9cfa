// Package backend holds the clients for the external collaborators: the auth
// service, the commerce backend (customers, orders, catalog), and the loyalty
// service. Each client owns its wire mapping and returns domain types and
// typed errors; nothing above this package sees a collaborator's JSON shape.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wasgeurtjeNL/storefront-session/pkg/httpclient"
)

// Doer issues HTTP requests with retry handled below this interface.
// httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// doJSON executes req, maps non-2xx responses to typed errors for the named
// collaborator, and decodes the body into out when out is non-nil.
func doJSON(ctx context.Context, client Doer, req *http.Request, collaborator string, out any) error {
	resp, err := client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call %s service: %w", collaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, collaborator)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", collaborator, err)
	}
	return nil
}
