package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

// SyncReporterAdapter публикует итоги прогонов синхронизации
type SyncReporterAdapter struct {
	producer   jsonPublisher
	routingKey string
}

func NewSyncReporterAdapter(producer jsonPublisher, routingKey string) (*SyncReporterAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &SyncReporterAdapter{producer: producer, routingKey: routingKey}, nil
}

func (a *SyncReporterAdapter) ReportSyncResults(ctx context.Context, stats *domain.SyncStats) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "SyncReporterAdapter",
		"routing_key": a.routingKey,
		"run_id":      stats.RunID.String(),
	})

	// Таймаут на публикацию, если контекст его не предоставляет
	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Info("Publishing sync results", nil)
	err := a.producer.PublishJSON(publishCtx, a.routingKey, syncResultDTO(stats), traceHeaders(contextkeys.TraceIDFromContext(ctx)))
	if err != nil {
		adapterLogger.Error("Failed to publish sync results", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish results of run %s: %w", stats.RunID, err)
	}
	return nil
}

var _ port.SyncReporterPort = (*SyncReporterAdapter)(nil)

// NoopSyncReporter используется, когда брокер выключен
type NoopSyncReporter struct{}

func (NoopSyncReporter) ReportSyncResults(ctx context.Context, stats *domain.SyncStats) error {
	return nil
}
