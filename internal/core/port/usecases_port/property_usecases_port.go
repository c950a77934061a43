package usecases_port

import (
	"context"
	"offplan-service/internal/core/domain"
)

type FindPropertiesUseCase interface {
	Execute(ctx context.Context, filter domain.PropertyFilter, page int) (*domain.PropertyPage, error)
}

type GetPropertyDetailsUseCase interface {
	Execute(ctx context.Context, id int64) (*domain.PropertyDetails, error)
}

type GetStatusCountsUseCase interface {
	Execute(ctx context.Context) (*domain.StatusCounts, error)
}

type GetCityCountsUseCase interface {
	// statusName сравнивается без учета регистра; domain.TotalStatus - все объекты
	Execute(ctx context.Context, statusName string) ([]domain.CityCount, error)
}

type ListCitiesUseCase interface {
	Execute(ctx context.Context) ([]domain.Lookup, error)
}
