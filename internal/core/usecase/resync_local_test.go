package usecase

import (
	"context"
	"testing"

	"offplan-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withStatus(r *domain.PropertyRecord, id int64, name string) *domain.PropertyRecord {
	r.PropertyStatus = &domain.LookupRef{ID: id, Name: name, Detailed: true}
	return r
}

func TestResyncLocal_Statuses(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	// 1: статус не изменился, 2: сменился, 3: во внешнем каталоге больше нет
	storage.properties[1] = localFrom(withStatus(record(1, "A"), domain.OffPlanStatusID, "Off Plan"))
	storage.properties[2] = localFrom(withStatus(record(2, "B"), domain.OffPlanStatusID, "Off Plan"))
	storage.properties[3] = localFrom(record(3, "C"))
	fetcher.records[1] = withStatus(record(1, "A"), domain.OffPlanStatusID, "Off Plan")
	fetcher.records[2] = withStatus(record(2, "B"), domain.ReadyStatusID, "Ready")

	uc := NewResyncLocalUseCase(fetcher, storage)
	stats, err := uc.Execute(context.Background(), uuid.New(), domain.SyncStatuses, domain.DefaultSyncOptions())
	require.NoError(t, err)

	assert.Equal(t, domain.StopCompleted, stats.StopReason)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.DetailFetches)

	require.Contains(t, storage.statusCalls, int64(2))
	assert.Equal(t, int64(domain.ReadyStatusID), storage.statusCalls[2].ID)
	assert.NotContains(t, storage.statusCalls, int64(1))
	assert.Empty(t, storage.saved, "status resync must not rewrite the whole record")
}

func TestResyncLocal_Details(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	storage.properties[5] = localFrom(record(5, "Old"))
	fetcher.records[5] = record(5, "New")

	opts := domain.DefaultSyncOptions()
	opts.Depth = domain.DepthRoot

	uc := NewResyncLocalUseCase(fetcher, storage)
	stats, err := uc.Execute(context.Background(), uuid.New(), domain.SyncDetails, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Updated)
	require.Len(t, storage.saveOpts, 1)
	assert.Equal(t, domain.DepthNested, storage.saveOpts[0].Depth)
	assert.Equal(t, "New", storage.properties[5].Title)
}

func TestResyncLocal_RejectsListingModes(t *testing.T) {
	uc := NewResyncLocalUseCase(newFakeFetcher(), newFakeStorage())
	_, err := uc.Execute(context.Background(), uuid.New(), domain.SyncProperties, domain.DefaultSyncOptions())
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
}
