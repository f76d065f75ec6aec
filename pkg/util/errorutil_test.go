package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThrough(t *testing.T) {
	err := NewConflict("email already registered", nil)

	mapped := ToDomainError(err)
	require.NotNil(t, mapped)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainError_WrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainError_UnwrapsWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewWrongCredentials())

	mapped := ToDomainError(wrapped)
	require.NotNil(t, mapped)
	assert.Equal(t, "WRONG_CREDENTIALS", mapped.Code)
	assert.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
}

func TestStoreUnavailable_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreUnavailable(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, "STORE_UNAVAILABLE"))
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewInvalidRole("ROLE_WIZARD"), "INVALID_ROLE"))
	assert.False(t, HasCode(NewInvalidRole("ROLE_WIZARD"), "CONFLICT"))
	assert.False(t, HasCode(errors.New("plain"), "CONFLICT"))
	assert.False(t, HasCode(nil, "CONFLICT"))
}
