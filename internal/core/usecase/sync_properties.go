package usecase

import (
	"context"
	"errors"
	"fmt"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"offplan-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// itemOutcome - результат обработки одного элемента листинга
type itemOutcome int

const (
	outcomeCreated itemOutcome = iota
	outcomeUpdated
	outcomeUnchanged
	outcomeFailed
)

// SyncPropertiesUseCase обходит листинг внешнего каталога страница за страницей,
// сравнивает каждую запись с локальной и пишет только изменения.
type SyncPropertiesUseCase struct {
	fetcher   port.CatalogFetcherPort
	storage   port.PropertyStoragePort
	events    port.ContentEventsPort
	filtersUC usecases_port.SyncFiltersUseCase
}

func NewSyncPropertiesUseCase(fetcher port.CatalogFetcherPort,
	storage port.PropertyStoragePort,
	events port.ContentEventsPort,
	filtersUC usecases_port.SyncFiltersUseCase) *SyncPropertiesUseCase {
	return &SyncPropertiesUseCase{
		fetcher:   fetcher,
		storage:   storage,
		events:    events,
		filtersUC: filtersUC,
	}
}

// Execute выполняет один прогон. Ошибка возвращается только для фатальных
// ситуаций (хранилище недоступно, контекст отменен); сбои отдельных
// элементов логируются и учитываются в Failed.
func (uc *SyncPropertiesUseCase) Execute(ctx context.Context, runID uuid.UUID, opts domain.SyncOptions) (*domain.SyncStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":         "SyncProperties",
		"run_id":           runID.String(),
		"change_detection": string(opts.ChangeDetection),
		"early_exit":       string(opts.EarlyExit),
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)

	stats := domain.NewSyncStats(runID, domain.SyncProperties)

	if err := opts.Validate(); err != nil {
		stats.Finish(domain.StopFailed, err)
		return stats, fmt.Errorf("invalid sync options: %w", err)
	}

	ucLogger.Info("Sync run started", port.Fields{"streak_threshold": opts.StreakThreshold})

	if opts.WithFilters && uc.filtersUC != nil {
		catalogStats, err := uc.filtersUC.Execute(ctx)
		if err != nil {
			// справочники догонят через upsert при записи объектов
			ucLogger.Warn("Filters sync failed, continuing with properties", port.Fields{"error": err.Error()})
		} else {
			stats.LookupsSaved = catalogStats.Total()
		}
	}

	detector := NewChangeDetector(opts.ChangeDetection)
	saveOpts := domain.SaveOptions{Depth: opts.Depth, LookupPolicy: opts.LookupPolicy}
	streak := 0

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			stats.Finish(domain.StopCancelled, err)
			return stats, err
		}

		items := uc.fetcher.FetchPage(ctx, page)
		if len(items) == 0 {
			ucLogger.Info("Empty page received, listing exhausted", port.Fields{"page": page})
			stats.Finish(domain.StopEmptyPage, nil)
			break
		}
		stats.Pages++
		pageChanged := false

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				stats.Finish(domain.StopCancelled, err)
				return stats, err
			}

			outcome, err := uc.processItem(ctx, item, detector, saveOpts, stats)
			if err != nil {
				ucLogger.Error("Sync run aborted", err, port.Fields{"page": page})
				stats.Finish(domain.StopFailed, err)
				return stats, err
			}

			switch outcome {
			case outcomeCreated:
				stats.Created++
				streak = 0
				pageChanged = true
			case outcomeUpdated:
				stats.Updated++
				streak = 0
				pageChanged = true
			case outcomeUnchanged:
				stats.Skipped++
				streak++
			case outcomeFailed:
				stats.Failed++
			}

			if opts.EarlyExit == domain.ExitOnStreak && streak >= opts.StreakThreshold {
				ucLogger.Info("Unchanged streak reached, stopping", port.Fields{"page": page, "streak": streak})
				stats.Finish(domain.StopStreak, nil)
				return uc.done(ucLogger, stats), nil
			}
		}

		if opts.EarlyExit == domain.ExitOnUnchangedPage && !pageChanged {
			ucLogger.Info("Page produced no changes, stopping", port.Fields{"page": page})
			stats.Finish(domain.StopPageUnchanged, nil)
			break
		}
	}

	return uc.done(ucLogger, stats), nil
}

func (uc *SyncPropertiesUseCase) done(logger port.LoggerPort, stats *domain.SyncStats) *domain.SyncStats {
	logger.Info("Sync run finished", port.Fields{
		"created":        stats.Created,
		"updated":        stats.Updated,
		"skipped":        stats.Skipped,
		"failed":         stats.Failed,
		"pages":          stats.Pages,
		"detail_fetches": stats.DetailFetches,
		"stop_reason":    stats.StopReason,
	})
	return stats
}

// processItem обрабатывает один элемент листинга: деталь, поиск, сравнение, запись
func (uc *SyncPropertiesUseCase) processItem(ctx context.Context,
	item domain.PropertySummary,
	detector ChangeDetector,
	saveOpts domain.SaveOptions,
	stats *domain.SyncStats) (itemOutcome, error) {

	logger := contextkeys.LoggerFromContext(ctx)

	if item.ID == nil {
		logger.Error("Listing item has no id, skipping", nil, port.Fields{"title": item.Title})
		return outcomeFailed, nil
	}
	id := *item.ID
	itemLogger := logger.WithFields(port.Fields{"property_id": id})

	record := uc.fetcher.FetchProperty(ctx, id)
	stats.DetailFetches++
	if record == nil {
		itemLogger.Warn("No detail record returned, skipping", nil)
		return outcomeFailed, nil
	}
	if record.ID == 0 {
		record.ID = id
	}

	local, err := uc.storage.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return outcomeFailed, fmt.Errorf("failed to load local property %d: %w", id, err)
	}

	if local == nil {
		if err := uc.storage.Save(ctx, record, saveOpts); err != nil {
			itemLogger.Error("Failed to create property", err, nil)
			return outcomeFailed, nil
		}
		itemLogger.Info("Property created", nil)
		uc.notifyCreated(ctx, itemLogger, record)
		return outcomeCreated, nil
	}

	changed, field := detector.IsDifferent(local, record)
	if !changed {
		itemLogger.Debug("Property unchanged", nil)
		return outcomeUnchanged, nil
	}

	if err := uc.storage.Save(ctx, record, saveOpts); err != nil {
		itemLogger.Error("Failed to update property", err, nil)
		return outcomeFailed, nil
	}
	itemLogger.Info("Property updated", port.Fields{"changed_field": field})
	return outcomeUpdated, nil
}

func (uc *SyncPropertiesUseCase) notifyCreated(ctx context.Context, logger port.LoggerPort, record *domain.PropertyRecord) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PropertyCreated(ctx, record); err != nil {
		logger.Warn("Post-create hook failed", port.Fields{"error": err.Error()})
	}
}
