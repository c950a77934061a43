package postgres

import (
	"errors"
	"fmt"
	"testing"

	"offplan-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil, nil))
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows), nil), domain.ErrNotFound)

	dup := &pgconn.PgError{Code: uniqueViolation, TableName: "agent_details"}
	err := mapError(dup, &uniqueKey{entity: "agent", field: "username"})
	require.ErrorIs(t, err, domain.ErrValidation)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "username", fieldErr.Field)
	assert.Equal(t, "agent with this username already exists.", fieldErr.Message)

	other := errors.New("connection reset")
	assert.Same(t, other, mapError(other, &uniqueKey{entity: "agent", field: "username"}))
	assert.Equal(t, dup, mapError(dup, nil))
}
