package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewValidationError(map[string]any{"email": "taken"})

	mapped := ToDomainError(original)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, "Validation error", mapped.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, mapped.HTTPStatus)
	assert.Equal(t, "taken", mapped.Details["email"])
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading user: %w", NewInvalidToken())

	mapped := ToDomainError(wrapped)
	assert.Equal(t, "INVALID_TOKEN", mapped.Code)
	assert.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.Equal(t, "internal server error", mapped.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.ErrorIs(t, err, cause)
}
