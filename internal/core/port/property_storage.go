package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

// PropertyStoragePort - хранилище объектов недвижимости
type PropertyStoragePort interface {
	// GetByID возвращает domain.ErrNotFound, если объекта нет
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	// Save создает или обновляет объект в одной транзакции
	Save(ctx context.Context, record *domain.PropertyRecord, opts domain.SaveOptions) error
	// UpdateStatus создает статус при необходимости и проставляет его объекту
	UpdateStatus(ctx context.Context, propertyID int64, status domain.LookupRef) error
	ListIDs(ctx context.Context) ([]int64, error)

	FindPage(ctx context.Context, filter domain.PropertyFilter, page, pageSize int) (*domain.PropertyPage, error)
	GetDetails(ctx context.Context, id int64) (*domain.PropertyDetails, error)
	CountByStatusIDs(ctx context.Context, readyID, offPlanID int64) (*domain.StatusCounts, error)
	// CountByCity группирует по городам; statusID == nil - все объекты
	CountByCity(ctx context.Context, statusID *int64) ([]domain.CityCount, error)
}
