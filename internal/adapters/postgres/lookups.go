package postgres

import (
	"context"
	"errors"
	"fmt"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// lookupTables - таблица для каждого справочника
var lookupTables = map[domain.LookupKind]string{
	domain.LookupCity:           "cities",
	domain.LookupDistrict:       "districts",
	domain.LookupDeveloper:      "developer_companies",
	domain.LookupPropertyType:   "property_types",
	domain.LookupPropertyStatus: "property_statuses",
	domain.LookupSalesStatus:    "sales_statuses",
	domain.LookupFacility:       "facilities",
}

// querier - общее подмножество pgxpool.Pool и pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// upsertLookup пишет строку справочника по внешнему id. Пустое имя не
// затирает существующее, а для новой строки заменяется заглушкой.
func upsertLookup(ctx context.Context, q querier, kind domain.LookupKind, id int64, name string) error {
	table := lookupTables[kind]
	var sql string
	if name != "" {
		sql = fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, table)
	} else {
		sql = fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING`, table)
	}
	if _, err := q.Exec(ctx, sql, id, kind.NameOrDefault(name)); err != nil {
		return fmt.Errorf("failed to upsert %s %d: %w", kind, id, err)
	}
	return nil
}

// resolveLookup возвращает id справочника для внешнего ключа объекта.
// Ссылка с объектом при политике upsert создает/обновляет строку; голый id
// (или политика lookup-only) только ищется, и при отсутствии дает nil.
func resolveLookup(ctx context.Context, q querier, kind domain.LookupKind, ref *domain.LookupRef, policy domain.LookupPolicy) (*int64, error) {
	if ref == nil {
		return nil, nil
	}

	if ref.Detailed && policy == domain.LookupUpsert {
		if err := upsertLookup(ctx, q, kind, ref.ID, ref.Name); err != nil {
			return nil, err
		}
		id := ref.ID
		return &id, nil
	}

	var id int64
	err := q.QueryRow(ctx, fmt.Sprintf("SELECT id FROM %s WHERE id = $1", lookupTables[kind]), ref.ID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		contextkeys.LoggerFromContext(ctx).Warn("Lookup received without name and not found, leaving empty", port.Fields{
			"lookup": string(kind),
			"id":     ref.ID,
		})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s %d: %w", kind, ref.ID, err)
	}
	return &id, nil
}

// LookupStorageAdapter реализует LookupStoragePort
type LookupStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewLookupStorageAdapter(pool *pgxpool.Pool) (*LookupStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &LookupStorageAdapter{pool: pool}, nil
}

// SaveCatalog записывает все справочники в одной транзакции
func (a *LookupStorageAdapter) SaveCatalog(ctx context.Context, catalog *domain.FilterCatalog) (*domain.CatalogSaveStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "LookupStorageAdapter",
		"method":    "SaveCatalog",
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stats := &domain.CatalogSaveStats{Saved: make(map[domain.LookupKind]int)}

	// города раньше районов: район ссылается на город
	plain := []struct {
		kind  domain.LookupKind
		items []domain.Lookup
	}{
		{domain.LookupCity, catalog.Cities},
		{domain.LookupDeveloper, catalog.DeveloperCompanies},
		{domain.LookupPropertyType, catalog.PropertyTypes},
		{domain.LookupPropertyStatus, catalog.PropertyStatuses},
		{domain.LookupSalesStatus, catalog.SalesStatuses},
		{domain.LookupFacility, catalog.Facilities},
	}
	for _, group := range plain {
		for _, item := range group.items {
			if err := upsertLookup(ctx, tx, group.kind, item.ID, item.Name); err != nil {
				repoLogger.Error("Failed to save lookup", err, port.Fields{"lookup": string(group.kind)})
				return nil, err
			}
			stats.Saved[group.kind]++
		}
	}

	for _, d := range catalog.Districts {
		// ссылка на несуществующий город сбрасывается в NULL
		_, err := tx.Exec(ctx, `
			INSERT INTO districts (id, name, city_id)
			VALUES ($1, $2, (SELECT id FROM cities WHERE id = $3))
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, city_id = COALESCE(EXCLUDED.city_id, districts.city_id)`,
			d.ID, domain.LookupDistrict.NameOrDefault(d.Name), d.CityID)
		if err != nil {
			repoLogger.Error("Failed to save district", err, port.Fields{"district_id": d.ID})
			return nil, fmt.Errorf("failed to upsert district %d: %w", d.ID, err)
		}
		stats.Saved[domain.LookupDistrict]++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Filters catalog saved", port.Fields{"total": stats.Total()})
	return stats, nil
}

// ListCities возвращает города по имени
func (a *LookupStorageAdapter) ListCities(ctx context.Context) ([]domain.Lookup, error) {
	rows, err := a.pool.Query(ctx, "SELECT id, name FROM cities ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	cities, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Lookup])
	if err != nil {
		return nil, fmt.Errorf("failed to scan cities: %w", err)
	}
	return cities, nil
}

func (a *LookupStorageAdapter) FindStatusByName(ctx context.Context, name string) (*domain.Lookup, error) {
	var status domain.Lookup
	err := a.pool.QueryRow(ctx,
		"SELECT id, name FROM property_statuses WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1",
		name).Scan(&status.ID, &status.Name)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return &status, nil
}

var _ port.LookupStoragePort = (*LookupStorageAdapter)(nil)
