package usecase

import (
	"context"
	"fmt"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"strings"
)

type GetStatusCountsUseCase struct {
	storage port.PropertyStoragePort
}

func NewGetStatusCountsUseCase(storage port.PropertyStoragePort) *GetStatusCountsUseCase {
	return &GetStatusCountsUseCase{storage: storage}
}

func (uc *GetStatusCountsUseCase) Execute(ctx context.Context) (*domain.StatusCounts, error) {
	counts, err := uc.storage.CountByStatusIDs(ctx, domain.ReadyStatusID, domain.OffPlanStatusID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to count properties by status", err, port.Fields{"use_case": "GetStatusCounts"})
		return nil, err
	}
	return counts, nil
}

// GetCityCountsUseCase группирует объекты по городам для статуса или для всех (Total)
type GetCityCountsUseCase struct {
	storage port.PropertyStoragePort
	lookups port.LookupStoragePort
}

func NewGetCityCountsUseCase(storage port.PropertyStoragePort, lookups port.LookupStoragePort) *GetCityCountsUseCase {
	return &GetCityCountsUseCase{storage: storage, lookups: lookups}
}

func (uc *GetCityCountsUseCase) Execute(ctx context.Context, statusName string) ([]domain.CityCount, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetCityCounts",
		"status":   statusName,
	})

	var (
		statusID    *int64
		filterLabel = domain.TotalStatus
	)
	if !strings.EqualFold(statusName, domain.TotalStatus) {
		status, err := uc.lookups.FindStatusByName(ctx, statusName)
		if err != nil {
			ucLogger.Warn("Status lookup failed", port.Fields{"error": err.Error()})
			return nil, fmt.Errorf("property status %q: %w", statusName, err)
		}
		statusID = &status.ID
		filterLabel = status.Name
	}

	counts, err := uc.storage.CountByCity(ctx, statusID)
	if err != nil {
		ucLogger.Error("Failed to count properties by city", err, nil)
		return nil, err
	}
	for i := range counts {
		counts[i].FilterStatus = filterLabel
	}
	return counts, nil
}

type ListCitiesUseCase struct {
	lookups port.LookupStoragePort
}

func NewListCitiesUseCase(lookups port.LookupStoragePort) *ListCitiesUseCase {
	return &ListCitiesUseCase{lookups: lookups}
}

func (uc *ListCitiesUseCase) Execute(ctx context.Context) ([]domain.Lookup, error) {
	return uc.lookups.ListCities(ctx)
}
