package usecase

import (
	"context"
	"errors"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

type GetPropertyDetailsUseCase struct {
	storage port.PropertyStoragePort
}

func NewGetPropertyDetailsUseCase(storage port.PropertyStoragePort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{storage: storage}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id int64) (*domain.PropertyDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": id,
	})

	result, err := uc.storage.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ucLogger.Warn("Property not found", nil)
		} else {
			ucLogger.Error("Storage returned an error", err, nil)
		}
		return nil, err
	}
	return result, nil
}
