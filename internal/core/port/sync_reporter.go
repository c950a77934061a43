package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

type SyncReporterPort interface {
	ReportSyncResults(ctx context.Context, stats *domain.SyncStats) error
}
