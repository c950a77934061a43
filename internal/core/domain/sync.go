package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncMode - тип запуска синхронизации
type SyncMode string

const (
	SyncProperties SyncMode = "properties" // постраничный обход внешнего каталога
	SyncFilters    SyncMode = "filters"    // только справочники
	SyncStatuses   SyncMode = "statuses"   // пересинхронизация статусов локальных объектов
	SyncDetails    SyncMode = "details"    // пересинхронизация деталей локальных объектов
)

// ParseSyncMode проверяет строковое значение режима
func ParseSyncMode(s string) (SyncMode, error) {
	switch m := SyncMode(s); m {
	case SyncProperties, SyncFilters, SyncStatuses, SyncDetails:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ChangeDetection - политика определения изменений
type ChangeDetection string

const (
	DetectFieldDiff ChangeDetection = "field-diff"
	DetectTimestamp ChangeDetection = "timestamp"
)

// EarlyExit - политика досрочной остановки обхода
type EarlyExit string

const (
	ExitOnStreak        EarlyExit = "streak" // N неизмененных подряд
	ExitOnUnchangedPage EarlyExit = "page"   // страница без изменений
	ExitNever           EarlyExit = "none"
)

// DetailDepth - что перезаписывается при обновлении объекта
type DetailDepth string

const (
	DepthNested DetailDepth = "nested" // корень + дочерние коллекции
	DepthRoot   DetailDepth = "root"
)

// LookupPolicy - как разрешаются ссылки на справочники
type LookupPolicy string

const (
	LookupUpsert       LookupPolicy = "upsert"
	LookupOnlyExisting LookupPolicy = "lookup-only"
)

// DefaultStreakThreshold - сколько неизмененных объектов подряд завершают обход
const DefaultStreakThreshold = 60

// SyncOptions - параметры прогона синхронизации
type SyncOptions struct {
	ChangeDetection ChangeDetection
	EarlyExit       EarlyExit
	StreakThreshold int
	Depth           DetailDepth
	LookupPolicy    LookupPolicy
	WithFilters     bool // синхронизировать справочники перед обходом
}

// DefaultSyncOptions - field-diff, остановка по серии из 60, вложенные коллекции, upsert справочников
func DefaultSyncOptions() SyncOptions {
	return SyncOptions{
		ChangeDetection: DetectFieldDiff,
		EarlyExit:       ExitOnStreak,
		StreakThreshold: DefaultStreakThreshold,
		Depth:           DepthNested,
		LookupPolicy:    LookupUpsert,
		WithFilters:     true,
	}
}

// Validate проверяет значения политик
func (o SyncOptions) Validate() error {
	switch o.ChangeDetection {
	case DetectFieldDiff, DetectTimestamp:
	default:
		return fmt.Errorf("unknown change detection %q", o.ChangeDetection)
	}
	switch o.EarlyExit {
	case ExitOnStreak, ExitOnUnchangedPage, ExitNever:
	default:
		return fmt.Errorf("unknown early exit policy %q", o.EarlyExit)
	}
	switch o.Depth {
	case DepthNested, DepthRoot:
	default:
		return fmt.Errorf("unknown detail depth %q", o.Depth)
	}
	switch o.LookupPolicy {
	case LookupUpsert, LookupOnlyExisting:
	default:
		return fmt.Errorf("unknown lookup policy %q", o.LookupPolicy)
	}
	if o.EarlyExit == ExitOnStreak && o.StreakThreshold <= 0 {
		return fmt.Errorf("streak threshold must be positive, got %d", o.StreakThreshold)
	}
	return nil
}

// SaveOptions - параметры записи одного объекта
type SaveOptions struct {
	Depth        DetailDepth
	LookupPolicy LookupPolicy
}

// Причины завершения прогона
const (
	StopEmptyPage     = "empty_page"
	StopStreak        = "unchanged_streak"
	StopPageUnchanged = "page_unchanged"
	StopCompleted     = "completed"
	StopCancelled     = "cancelled"
	StopFailed        = "failed"
)

// SyncStats - итог прогона
type SyncStats struct {
	RunID         uuid.UUID `json:"run_id"`
	Mode          SyncMode  `json:"mode"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	Failed        int       `json:"failed"`
	Pages         int       `json:"pages"`
	DetailFetches int       `json:"detail_fetches"`
	LookupsSaved  int       `json:"lookups_saved"`
	StopReason    string    `json:"stop_reason"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// NewSyncStats создает статистику нового прогона
func NewSyncStats(runID uuid.UUID, mode SyncMode) *SyncStats {
	return &SyncStats{RunID: runID, Mode: mode, StartedAt: time.Now()}
}

// Finish фиксирует причину остановки и время завершения
func (s *SyncStats) Finish(reason string, err error) {
	s.StopReason = reason
	if err != nil {
		s.Error = err.Error()
	}
	s.FinishedAt = time.Now()
}
