package postgres

import (
	"errors"
	"fmt"

	"offplan-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// uniqueKey описывает уникальное поле сущности для сообщения об ошибке
type uniqueKey struct {
	entity string
	field  string
}

// mapError переводит ошибки драйвера в доменные: нет строки - ErrNotFound,
// нарушение уникальности - FieldError по полю key.
func mapError(err error, key *uniqueKey) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if key != nil && errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.NewFieldError(key.field, fmt.Sprintf("%s with this %s already exists.", key.entity, key.field))
	}
	return err
}
