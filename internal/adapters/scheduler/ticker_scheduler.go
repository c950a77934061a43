package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"offplan-service/internal/core/port/usecases_port"
)

// TickerScheduler периодически запускает прогон синхронизации.
// Реализует port.EventListenerPort, поэтому живет в App рядом с консьюмерами.
type TickerScheduler struct {
	runUC    usecases_port.RunSyncUseCase
	mode     domain.SyncMode
	interval time.Duration
	logger   port.LoggerPort

	stop chan struct{}
}

func NewTickerScheduler(runUC usecases_port.RunSyncUseCase, mode domain.SyncMode, interval time.Duration, logger port.LoggerPort) (*TickerScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %s", interval)
	}
	if _, err := domain.ParseSyncMode(string(mode)); err != nil {
		return nil, err
	}
	return &TickerScheduler{
		runUC:    runUC,
		mode:     mode,
		interval: interval,
		logger: logger.WithFields(port.Fields{
			"component": "TickerScheduler",
			"mode":      string(mode),
			"interval":  interval.String(),
		}),
		stop: make(chan struct{}),
	}, nil
}

// Start блокируется до отмены контекста или Close
func (s *TickerScheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started", nil)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *TickerScheduler) tick(ctx context.Context) {
	ctx, tickLogger, _ := contextkeys.StartTrace(ctx, s.logger, "")

	runID, err := s.runUC.Start(ctx, s.mode)
	if errors.Is(err, domain.ErrSyncInProgress) {
		tickLogger.Info("Previous sync run is still in progress, tick skipped", nil)
		return
	}
	if err != nil {
		tickLogger.Error("Failed to start scheduled sync", err, nil)
		return
	}
	tickLogger.Info("Scheduled sync started", port.Fields{"run_id": runID.String()})
}

func (s *TickerScheduler) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return nil
}
