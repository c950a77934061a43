package usecase

import (
	"offplan-service/internal/core/domain"
)

// ChangeDetector решает, отличается ли внешняя запись от локальной.
// local == nil означает, что локальной записи нет.
type ChangeDetector interface {
	// IsDifferent возвращает признак изменения и имя поля-причины для логов
	IsDifferent(local *domain.Property, external *domain.PropertyRecord) (bool, string)
}

// NewChangeDetector возвращает детектор для выбранной политики
func NewChangeDetector(mode domain.ChangeDetection) ChangeDetector {
	if mode == domain.DetectTimestamp {
		return TimestampDetector{}
	}
	return FieldDiffDetector{}
}

// FieldDiffDetector сравнивает все скалярные поля и внешние ключи
type FieldDiffDetector struct{}

func (FieldDiffDetector) IsDifferent(local *domain.Property, external *domain.PropertyRecord) (bool, string) {
	if local == nil {
		return true, "missing"
	}
	if field := local.FirstDifference(external); field != "" {
		return true, field
	}
	return false, ""
}

// TimestampDetector считает запись неизмененной, если внешний updated_at не новее локального
type TimestampDetector struct{}

func (TimestampDetector) IsDifferent(local *domain.Property, external *domain.PropertyRecord) (bool, string) {
	if local == nil {
		return true, "missing"
	}
	if local.UpdatedAt == nil || external.UpdatedAt == nil {
		return true, "updated_at"
	}
	if external.UpdatedAt.After(*local.UpdatedAt) {
		return true, "updated_at"
	}
	return false, ""
}
