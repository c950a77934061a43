package usecase

import (
	"context"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"offplan-service/internal/core/port/usecases_port"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// RunSyncUseCase - единая точка запуска прогонов. В процессе одновременно
// выполняется не больше одного прогона, второй запуск отклоняется.
type RunSyncUseCase struct {
	propertiesUC usecases_port.SyncPropertiesUseCase
	filtersUC    usecases_port.SyncFiltersUseCase
	resyncUC     usecases_port.ResyncLocalUseCase
	reporter     port.SyncReporterPort
	opts         domain.SyncOptions

	running atomic.Bool

	mu      sync.RWMutex
	lastRun *domain.SyncStats

	// фоновые прогоны живут до Shutdown, а не до конца HTTP-запроса
	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewRunSyncUseCase(propertiesUC usecases_port.SyncPropertiesUseCase,
	filtersUC usecases_port.SyncFiltersUseCase,
	resyncUC usecases_port.ResyncLocalUseCase,
	reporter port.SyncReporterPort,
	opts domain.SyncOptions) *RunSyncUseCase {

	lifetime, cancel := context.WithCancel(context.Background())
	return &RunSyncUseCase{
		propertiesUC: propertiesUC,
		filtersUC:    filtersUC,
		resyncUC:     resyncUC,
		reporter:     reporter,
		opts:         opts,
		lifetime:     lifetime,
		cancel:       cancel,
	}
}

// Execute выполняет прогон синхронно в вызывающей горутине
func (uc *RunSyncUseCase) Execute(ctx context.Context, mode domain.SyncMode) (*domain.SyncStats, error) {
	if _, err := domain.ParseSyncMode(string(mode)); err != nil {
		return nil, err
	}
	if !uc.running.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer uc.running.Store(false)

	return uc.run(ctx, uuid.New(), mode)
}

// Start запускает прогон в фоне и сразу возвращает его run_id
func (uc *RunSyncUseCase) Start(ctx context.Context, mode domain.SyncMode) (uuid.UUID, error) {
	if _, err := domain.ParseSyncMode(string(mode)); err != nil {
		return uuid.Nil, err
	}
	if !uc.running.CompareAndSwap(false, true) {
		return uuid.Nil, domain.ErrSyncInProgress
	}

	runID := uuid.New()
	bgCtx := contextkeys.Detach(uc.lifetime, ctx)

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer uc.running.Store(false)
		_, _ = uc.run(bgCtx, runID, mode)
	}()

	return runID, nil
}

// LastRun возвращает статистику последнего завершенного прогона
func (uc *RunSyncUseCase) LastRun() *domain.SyncStats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.lastRun == nil {
		return nil
	}
	copied := *uc.lastRun
	return &copied
}

// Shutdown отменяет фоновые прогоны и дожидается их завершения
func (uc *RunSyncUseCase) Shutdown() {
	uc.cancel()
	uc.wg.Wait()
}

func (uc *RunSyncUseCase) run(ctx context.Context, runID uuid.UUID, mode domain.SyncMode) (*domain.SyncStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RunSync",
		"run_id":   runID.String(),
		"mode":     string(mode),
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)

	var (
		stats *domain.SyncStats
		err   error
	)
	switch mode {
	case domain.SyncProperties:
		stats, err = uc.propertiesUC.Execute(ctx, runID, uc.opts)
	case domain.SyncFilters:
		stats = domain.NewSyncStats(runID, mode)
		catalogStats, ferr := uc.filtersUC.Execute(ctx)
		if ferr != nil {
			err = ferr
			stats.Finish(domain.StopFailed, err)
		} else {
			stats.LookupsSaved = catalogStats.Total()
			stats.Finish(domain.StopCompleted, nil)
		}
	default:
		stats, err = uc.resyncUC.Execute(ctx, runID, mode, uc.opts)
	}

	if err != nil {
		ucLogger.Error("Sync run failed", err, nil)
	}

	if stats != nil {
		uc.mu.Lock()
		uc.lastRun = stats
		uc.mu.Unlock()

		if uc.reporter != nil {
			if rerr := uc.reporter.ReportSyncResults(ctx, stats); rerr != nil {
				ucLogger.Warn("Failed to report sync results", port.Fields{"error": rerr.Error()})
			}
		}
	}

	return stats, err
}
