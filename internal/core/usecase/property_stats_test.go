package usecase

import (
	"context"
	"testing"

	"offplan-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCityCounts(t *testing.T) {
	lookups := &fakeLookups{statuses: map[string]domain.Lookup{
		"Off Plan": {ID: domain.OffPlanStatusID, Name: "Off Plan"},
	}}
	uc := NewGetCityCountsUseCase(newFakeStorage(), lookups)
	ctx := context.Background()

	total, err := uc.Execute(ctx, "total")
	require.NoError(t, err)
	require.Len(t, total, 1)
	assert.Equal(t, domain.TotalStatus, total[0].FilterStatus)

	byStatus, err := uc.Execute(ctx, "off plan")
	require.NoError(t, err)
	assert.Equal(t, "Off Plan", byStatus[0].FilterStatus)

	_, err = uc.Execute(ctx, "Sold Out")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindProperties_ClampsPage(t *testing.T) {
	uc := NewFindPropertiesUseCase(newFakeStorage())
	page, err := uc.Execute(context.Background(), domain.PropertyFilter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, domain.PropertiesPageSize, page.PageSize)
}
