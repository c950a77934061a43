package usecases_port

import (
	"context"
	"offplan-service/internal/core/domain"

	"github.com/google/uuid"
)

// SyncPropertiesUseCase - постраничная синхронизация с внешним каталогом
type SyncPropertiesUseCase interface {
	Execute(ctx context.Context, runID uuid.UUID, opts domain.SyncOptions) (*domain.SyncStats, error)
}

// SyncFiltersUseCase - синхронизация справочников
type SyncFiltersUseCase interface {
	Execute(ctx context.Context) (*domain.CatalogSaveStats, error)
}

// ResyncLocalUseCase - пересинхронизация уже сохраненных объектов
type ResyncLocalUseCase interface {
	Execute(ctx context.Context, runID uuid.UUID, mode domain.SyncMode, opts domain.SyncOptions) (*domain.SyncStats, error)
}

// RunSyncUseCase - единая точка запуска прогонов (CLI, REST, очередь, планировщик)
type RunSyncUseCase interface {
	// Execute выполняет прогон синхронно
	Execute(ctx context.Context, mode domain.SyncMode) (*domain.SyncStats, error)
	// Start запускает прогон в фоне и сразу возвращает его идентификатор
	Start(ctx context.Context, mode domain.SyncMode) (uuid.UUID, error)
	LastRun() *domain.SyncStats
}
