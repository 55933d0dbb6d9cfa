package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
)

// collaboratorError covers the two error body shapes the external
// collaborators return: a flat {"message": "..."} and a nested
// {"error": {"code": "...", "message": "..."}}.
type collaboratorError struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. Credential rejections keep the backend's
// message verbatim; everything else carries the collaborator name only.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, collaborator string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", collaborator, resp.StatusCode, err)
	}

	message := ""
	var parsed collaboratorError
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		switch {
		case parsed.Error != nil && parsed.Error.Message != "":
			message = parsed.Error.Message
		case parsed.Message != "":
			message = parsed.Message
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "invalid credentials"
		}
		return apperrors.Unauthorized(message)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(collaborator, message)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", collaborator, message))
	case resp.StatusCode >= 500:
		return apperrors.BackendUnavailable(collaborator,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	default:
		return fmt.Errorf("%s returned status %d: %s", collaborator, resp.StatusCode, string(bodyBytes))
	}
}
