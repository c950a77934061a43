package usecase

import (
	"context"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

type FindPropertiesUseCase struct {
	storage port.PropertyStoragePort
}

func NewFindPropertiesUseCase(storage port.PropertyStoragePort) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{storage: storage}
}

// Execute возвращает страницу объектов (новые изменения первыми)
func (uc *FindPropertiesUseCase) Execute(ctx context.Context, filter domain.PropertyFilter, page int) (*domain.PropertyPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FindProperties",
		"page":     page,
	})

	if page < 1 {
		page = 1
	}

	result, err := uc.storage.FindPage(ctx, filter, page, domain.PropertiesPageSize)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{"total": result.TotalCount})
	return result, nil
}
