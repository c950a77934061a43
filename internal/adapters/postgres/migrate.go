package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema создает таблицы и индексы, если их еще нет
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "PostgresMigrator"})

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		logger.Error("Failed to apply schema", err, nil)
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("Schema is up to date", nil)
	return nil
}
