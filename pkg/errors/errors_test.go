package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := InvalidInput("email is required")
	assert.Equal(t, "INVALID_INPUT: email is required", err.Error())
}

func TestAppError_ErrorWithWrapped(t *testing.T) {
	inner := errors.New("boom")
	err := Internal(inner)
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	err := Unauthorized("bad credentials")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBackendUnavailable_WrapsBothErrors(t *testing.T) {
	inner := errors.New("connection refused")
	err := BackendUnavailable("loyalty service", inner)

	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("order", "42")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("nope")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("fetch orders: %w", ErrBackendUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("mystery")))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrCorruptState, "load session")
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.Contains(t, err.Error(), "load session")
}
