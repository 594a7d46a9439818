package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewConflict("already exists", nil)
	converted := ToDomainError(original)
	require.Equal(t, "CONFLICT", converted.Code)
	require.Equal(t, http.StatusConflict, converted.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, "NOT_FOUND", converted.Code)
	require.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	converted := ToDomainError(errors.New("boom"))
	require.Equal(t, "INTERNAL_ERROR", converted.Code)
	require.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
}

func TestPersistenceFailureKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistenceFailure("ticket update", cause)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "ticket update")
}
