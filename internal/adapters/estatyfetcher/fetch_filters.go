package estatyfetcher

import (
	"context"
	"encoding/json"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

// FetchFilters загружает справочники каталога (getFilters)
func (a *EstatyFetcherAdapter) FetchFilters(ctx context.Context) *domain.FilterCatalog {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "EstatyFetcher"})

	logger.Info("Fetching filter data", nil)
	body, _, err := a.post(ctx, a.cfg.FiltersURL, []byte("{}"))
	if err != nil {
		logger.Error("Filters request failed", err, nil)
		return nil
	}

	var resp estatyFilters
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Error("Failed to decode filters", err, nil)
		return nil
	}

	catalog := toFilterCatalog(&resp)
	logger.Info("Filters fetched", port.Fields{
		"cities":    len(catalog.Cities),
		"districts": len(catalog.Districts),
	})
	return catalog
}

var _ port.CatalogFetcherPort = (*EstatyFetcherAdapter)(nil)
