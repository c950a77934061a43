package usecase

import (
	"context"
	"testing"

	"offplan-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noFilters(opts domain.SyncOptions) domain.SyncOptions {
	opts.WithFilters = false
	return opts
}

// seed кладет в фейки count записей начиная с firstID; все, кроме changed, уже есть локально без изменений
func seed(fetcher *fakeFetcher, storage *fakeStorage, firstID int64, count int, changed map[int64]bool) []int64 {
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		id := firstID + int64(i)
		ids = append(ids, id)
		rec := record(id, "Tower")
		fetcher.records[id] = rec
		local := localFrom(rec)
		if changed[id] {
			local.Title = "Old tower"
		}
		storage.properties[id] = local
	}
	return ids
}

func TestSyncProperties_StopsAfterUnchangedStreak(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	// 1 измененный и 69 неизмененных на первой странице, есть и вторая страница
	ids := seed(fetcher, storage, 1, 70, map[int64]bool{1: true})
	fetcher.pages[1] = summaries(ids...)
	fetcher.pages[2] = summaries(1000)

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), noFilters(domain.DefaultSyncOptions()))
	require.NoError(t, err)

	assert.Equal(t, domain.StopStreak, stats.StopReason)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, domain.DefaultStreakThreshold, stats.Skipped)
	assert.Equal(t, 61, stats.DetailFetches)
	assert.Len(t, fetcher.detailCalls, 61)
	assert.Equal(t, []int{1}, fetcher.pageCalls, "no further list pages after the streak")
}

func TestSyncProperties_StreakEndingOnLastItemSkipsNextPage(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	ids := seed(fetcher, storage, 1, 61, map[int64]bool{1: true})
	fetcher.pages[1] = summaries(ids...)
	fetcher.pages[2] = summaries(500, 501)

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), noFilters(domain.DefaultSyncOptions()))
	require.NoError(t, err)

	assert.Equal(t, domain.StopStreak, stats.StopReason)
	assert.Equal(t, []int{1}, fetcher.pageCalls)
	assert.NotContains(t, fetcher.detailCalls, int64(500))
}

func TestSyncProperties_ChangeResetsStreak(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	ids := seed(fetcher, storage, 1, 5, map[int64]bool{3: true})
	fetcher.pages[1] = summaries(ids...)

	opts := noFilters(domain.DefaultSyncOptions())
	opts.StreakThreshold = 3

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), opts)
	require.NoError(t, err)

	// 1,2 неизменны, 3 изменен и сбрасывает серию, 4,5 неизменны, затем пустая страница
	assert.Equal(t, domain.StopEmptyPage, stats.StopReason)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 4, stats.Skipped)
	assert.Equal(t, []int{1, 2}, fetcher.pageCalls)
}

func TestSyncProperties_CreatesMissingAndFiresHook(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()
	events := &fakeEvents{}

	rec := record(42, "Marina Heights")
	rec.PaymentPlans = []domain.PaymentPlan{{Name: "60/40", Values: []domain.PaymentPlanValue{{Name: "On booking", Value: "10%"}}}}
	fetcher.records[42] = rec
	fetcher.pages[1] = summaries(42)

	uc := NewSyncPropertiesUseCase(fetcher, storage, events, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), noFilters(domain.DefaultSyncOptions()))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, []int64{42}, storage.saved)
	assert.Equal(t, []int64{42}, events.properties)
	require.Len(t, storage.saveOpts, 1)
	assert.Equal(t, domain.DepthNested, storage.saveOpts[0].Depth)
	assert.Equal(t, domain.LookupUpsert, storage.saveOpts[0].LookupPolicy)

	local, err := storage.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Marina Heights", local.Title)
}

func TestSyncProperties_SkipsBrokenItems(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	fetcher.records[2] = record(2, "Ok")
	fetcher.pages[1] = []domain.PropertySummary{
		{ID: nil, Title: "no id"},
		{ID: int64Ptr(1)}, // деталь недоступна
		{ID: int64Ptr(2)},
	}

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), noFilters(domain.DefaultSyncOptions()))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, []int64{1, 2}, fetcher.detailCalls, "item without id must not be fetched")
}

func TestSyncProperties_SaveFailureIsIsolated(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	fetcher.records[1] = record(1, "A")
	fetcher.records[2] = record(2, "B")
	fetcher.pages[1] = summaries(1, 2)
	storage.saveErr[1] = errStorageDown

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), noFilters(domain.DefaultSyncOptions()))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Created)
}

func TestSyncProperties_LookupFailureAbortsRun(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()
	storage.getErr = errStorageDown

	fetcher.records[1] = record(1, "A")
	fetcher.pages[1] = summaries(1)
	fetcher.pages[2] = summaries(2)

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), noFilters(domain.DefaultSyncOptions()))

	require.ErrorIs(t, err, errStorageDown)
	assert.Equal(t, domain.StopFailed, stats.StopReason)
	assert.Equal(t, []int{1}, fetcher.pageCalls)
}

func TestSyncProperties_PageLevelEarlyExit(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	page1 := seed(fetcher, storage, 1, 3, map[int64]bool{2: true})
	page2 := seed(fetcher, storage, 10, 3, nil)
	fetcher.pages[1] = summaries(page1...)
	fetcher.pages[2] = summaries(page2...)
	fetcher.pages[3] = summaries(99)

	opts := noFilters(domain.DefaultSyncOptions())
	opts.EarlyExit = domain.ExitOnUnchangedPage

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), opts)
	require.NoError(t, err)

	assert.Equal(t, domain.StopPageUnchanged, stats.StopReason)
	assert.Equal(t, []int{1, 2}, fetcher.pageCalls)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 5, stats.Skipped)
}

func TestSyncProperties_TimestampDetection(t *testing.T) {
	fetcher := newFakeFetcher()
	storage := newFakeStorage()

	older := mustTime(t, "2025-01-01T00:00:00Z")
	newer := mustTime(t, "2025-02-01T00:00:00Z")

	rec := record(7, "Changed title but same timestamp")
	rec.UpdatedAt = &older
	fetcher.records[7] = rec
	local := localFrom(record(7, "Original"))
	local.UpdatedAt = &older
	storage.properties[7] = local

	rec8 := record(8, "Same")
	rec8.UpdatedAt = &newer
	fetcher.records[8] = rec8
	local8 := localFrom(rec8)
	local8.UpdatedAt = &older
	storage.properties[8] = local8

	fetcher.pages[1] = summaries(7, 8)

	opts := noFilters(domain.DefaultSyncOptions())
	opts.ChangeDetection = domain.DetectTimestamp

	uc := NewSyncPropertiesUseCase(fetcher, storage, nil, nil)
	stats, err := uc.Execute(context.Background(), uuid.New(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, []int64{8}, storage.saved)
}

func TestSyncProperties_RunsFiltersFirst(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.catalog = &domain.FilterCatalog{Cities: []domain.Lookup{{ID: 1, Name: "Dubai"}}}
	lookups := &fakeLookups{}

	uc := NewSyncPropertiesUseCase(fetcher, newFakeStorage(), nil, NewSyncFiltersUseCase(fetcher, lookups))
	stats, err := uc.Execute(context.Background(), uuid.New(), domain.DefaultSyncOptions())
	require.NoError(t, err)

	require.NotNil(t, lookups.saved)
	assert.Equal(t, 1, stats.LookupsSaved)
	assert.Equal(t, domain.StopEmptyPage, stats.StopReason)
}

func TestSyncProperties_RejectsInvalidOptions(t *testing.T) {
	uc := NewSyncPropertiesUseCase(newFakeFetcher(), newFakeStorage(), nil, nil)
	opts := domain.DefaultSyncOptions()
	opts.StreakThreshold = 0

	_, err := uc.Execute(context.Background(), uuid.New(), opts)
	assert.Error(t, err)
}

func TestSyncProperties_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newFakeFetcher()
	uc := NewSyncPropertiesUseCase(fetcher, newFakeStorage(), nil, nil)
	stats, err := uc.Execute(ctx, uuid.New(), noFilters(domain.DefaultSyncOptions()))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StopCancelled, stats.StopReason)
	assert.Empty(t, fetcher.pageCalls)
}
