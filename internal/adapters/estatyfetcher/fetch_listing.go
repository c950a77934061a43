package estatyfetcher

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/contracts"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

// pageURL строит адрес страницы листинга: первая страница без параметра page
func (a *EstatyFetcherAdapter) pageURL(page int) (string, error) {
	u, err := url.Parse(a.cfg.ListingURL)
	if err != nil {
		return "", err
	}
	if page > 1 {
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// FetchPage возвращает элементы страницы листинга. Любой сбой - пустой срез.
func (a *EstatyFetcherAdapter) FetchPage(ctx context.Context, page int) []domain.PropertySummary {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "EstatyFetcher",
		"page":      page,
	})

	targetURL, err := a.pageURL(page)
	if err != nil {
		logger.Error("Failed to build listing URL", err, nil)
		return nil
	}

	logger.Info("Fetching listing page", port.Fields{"url": targetURL})
	body, _, err := a.post(ctx, targetURL, []byte("{}"))
	if err != nil {
		logger.Error("Listing request failed", err, nil)
		return nil
	}

	var resp estatyListingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Error("Failed to decode listing page", err, nil)
		return nil
	}

	if resp.Properties == nil && resp.Property != nil {
		return []domain.PropertySummary{toSummary(*resp.Property)}
	}

	if err := contracts.Validate(contracts.EstatyListing, contracts.V1, body); err != nil {
		logger.Warn("Unexpected listing structure", port.Fields{"error": err.Error()})
		return nil
	}

	items := make([]domain.PropertySummary, 0, len(resp.Properties.Data))
	for _, s := range resp.Properties.Data {
		items = append(items, toSummary(s))
	}
	logger.Debug("Listing page fetched", port.Fields{"items": len(items)})
	return items
}
