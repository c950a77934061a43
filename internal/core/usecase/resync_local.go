package usecase

import (
	"context"
	"errors"
	"fmt"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/google/uuid"
)

// ResyncLocalUseCase проходит по всем локальным объектам и подтягивает из
// внешнего каталога либо только статус, либо полную детальную запись.
type ResyncLocalUseCase struct {
	fetcher port.CatalogFetcherPort
	storage port.PropertyStoragePort
}

func NewResyncLocalUseCase(fetcher port.CatalogFetcherPort, storage port.PropertyStoragePort) *ResyncLocalUseCase {
	return &ResyncLocalUseCase{fetcher: fetcher, storage: storage}
}

func (uc *ResyncLocalUseCase) Execute(ctx context.Context, runID uuid.UUID, mode domain.SyncMode, opts domain.SyncOptions) (*domain.SyncStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ResyncLocal",
		"run_id":   runID.String(),
		"mode":     string(mode),
	})

	stats := domain.NewSyncStats(runID, mode)
	if mode != domain.SyncStatuses && mode != domain.SyncDetails {
		err := fmt.Errorf("%w: %q is not a local resync mode", domain.ErrUnknownMode, mode)
		stats.Finish(domain.StopFailed, err)
		return stats, err
	}

	ids, err := uc.storage.ListIDs(ctx)
	if err != nil {
		stats.Finish(domain.StopFailed, err)
		return stats, fmt.Errorf("failed to list local properties: %w", err)
	}
	ucLogger.Info("Resync started", port.Fields{"properties": len(ids)})

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			stats.Finish(domain.StopCancelled, err)
			return stats, err
		}
		itemLogger := ucLogger.WithFields(port.Fields{"property_id": id})

		record := uc.fetcher.FetchProperty(ctx, id)
		stats.DetailFetches++
		if record == nil {
			itemLogger.Warn("No detail record returned, skipping", nil)
			stats.Failed++
			continue
		}
		if record.ID == 0 {
			record.ID = id
		}

		var outcome itemOutcome
		if mode == domain.SyncStatuses {
			outcome, err = uc.resyncStatus(ctx, itemLogger, id, record)
		} else {
			outcome, err = uc.resyncDetails(ctx, itemLogger, record, opts)
		}
		if err != nil {
			ucLogger.Error("Resync aborted", err, port.Fields{"property_id": id})
			stats.Finish(domain.StopFailed, err)
			return stats, err
		}

		switch outcome {
		case outcomeUpdated:
			stats.Updated++
		case outcomeUnchanged:
			stats.Skipped++
		case outcomeFailed:
			stats.Failed++
		}
	}

	stats.Finish(domain.StopCompleted, nil)
	ucLogger.Info("Resync finished", port.Fields{
		"updated": stats.Updated,
		"skipped": stats.Skipped,
		"failed":  stats.Failed,
	})
	return stats, nil
}

func (uc *ResyncLocalUseCase) resyncStatus(ctx context.Context, logger port.LoggerPort, id int64, record *domain.PropertyRecord) (itemOutcome, error) {
	if record.PropertyStatus == nil {
		logger.Debug("External record has no status", nil)
		return outcomeUnchanged, nil
	}

	local, err := uc.storage.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		// удален между ListIDs и текущим шагом
		return outcomeUnchanged, nil
	}
	if err != nil {
		return outcomeFailed, fmt.Errorf("failed to load local property %d: %w", id, err)
	}

	if local.PropertyStatusID != nil && *local.PropertyStatusID == record.PropertyStatus.ID {
		return outcomeUnchanged, nil
	}

	if err := uc.storage.UpdateStatus(ctx, id, *record.PropertyStatus); err != nil {
		logger.Error("Failed to update status", err, nil)
		return outcomeFailed, nil
	}
	logger.Info("Status updated", port.Fields{"status_id": record.PropertyStatus.ID})
	return outcomeUpdated, nil
}

func (uc *ResyncLocalUseCase) resyncDetails(ctx context.Context, logger port.LoggerPort, record *domain.PropertyRecord, opts domain.SyncOptions) (itemOutcome, error) {
	saveOpts := domain.SaveOptions{Depth: domain.DepthNested, LookupPolicy: opts.LookupPolicy}
	if err := uc.storage.Save(ctx, record, saveOpts); err != nil {
		logger.Error("Failed to save details", err, nil)
		return outcomeFailed, nil
	}
	logger.Debug("Details synced", nil)
	return outcomeUpdated, nil
}
