package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

// LookupStoragePort - хранилище справочников
type LookupStoragePort interface {
	SaveCatalog(ctx context.Context, catalog *domain.FilterCatalog) (*domain.CatalogSaveStats, error)
	ListCities(ctx context.Context) ([]domain.Lookup, error)
	// FindStatusByName ищет статус без учета регистра, domain.ErrNotFound если нет
	FindStatusByName(ctx context.Context, name string) (*domain.Lookup, error)
}
