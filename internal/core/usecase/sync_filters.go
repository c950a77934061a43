package usecase

import (
	"context"
	"fmt"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

// SyncFiltersUseCase загружает справочники внешнего каталога и пишет их по id
type SyncFiltersUseCase struct {
	fetcher port.CatalogFetcherPort
	lookups port.LookupStoragePort
}

func NewSyncFiltersUseCase(fetcher port.CatalogFetcherPort, lookups port.LookupStoragePort) *SyncFiltersUseCase {
	return &SyncFiltersUseCase{fetcher: fetcher, lookups: lookups}
}

func (uc *SyncFiltersUseCase) Execute(ctx context.Context) (*domain.CatalogSaveStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SyncFilters"})

	ucLogger.Info("Use case started", nil)

	catalog := uc.fetcher.FetchFilters(ctx)
	if catalog == nil {
		return nil, fmt.Errorf("filters catalog is unavailable")
	}

	stats, err := uc.lookups.SaveCatalog(ctx, catalog)
	if err != nil {
		ucLogger.Error("Failed to save filters catalog", err, nil)
		return nil, fmt.Errorf("failed to save filters catalog: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"saved": stats.Saved})
	return stats, nil
}
