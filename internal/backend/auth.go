package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
	"github.com/wasgeurtjeNL/storefront-session/pkg/httpclient"
)

// AuthClient exchanges credentials for bearer tokens and introspects them.
type AuthClient struct {
	baseURL string
	client  Doer
	logger  *slog.Logger
}

func NewAuthClient(baseURL string, client Doer, logger *slog.Logger) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// IssueToken exchanges an email/password pair for a bearer token. A 401 or
// 403 from the auth service surfaces as Unauthorized with the service's own
// message, which the UI shows verbatim.
func (c *AuthClient) IssueToken(ctx context.Context, email, password string) (string, error) {
	type tokenRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type tokenResponse struct {
		Token string `json:"token"`
	}

	body, err := json.Marshal(tokenRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var tokenResp tokenResponse
	if err := doJSON(ctx, c.client, req, "auth", &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.Token == "" {
		return "", apperrors.BackendUnavailable("auth", errors.New("token missing from response"))
	}

	c.logger.InfoContext(ctx, "token issued", slog.String("email", email))
	return tokenResp.Token, nil
}

// Introspect asks the auth service whether a token is still valid. An
// explicit 401/403 is a negative answer, not an error. Used defensively;
// session restore does not call it.
func (c *AuthClient) Introspect(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/token/validate", nil)
	if err != nil {
		return false, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return false, fmt.Errorf("call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, httpclient.ParseResponseError(resp, "auth")
	}

	var introspectResp struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&introspectResp); err != nil {
		return false, fmt.Errorf("decode introspect response: %w", err)
	}
	return introspectResp.Valid, nil
}
