package estatyfetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/contracts"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

type propertyRequest struct {
	ID int64 `json:"id"`
}

// FetchProperty загружает и нормализует детальную запись. Ответ не 200,
// таймаут, {"property": null} или запись, не прошедшая схему, дают nil.
func (a *EstatyFetcherAdapter) FetchProperty(ctx context.Context, id int64) *domain.PropertyRecord {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "EstatyFetcher",
		"property_id": id,
	})

	reqBody, err := json.Marshal(propertyRequest{ID: id})
	if err != nil {
		logger.Error("Failed to marshal detail request", err, nil)
		return nil
	}

	detailCtx, cancel := context.WithTimeout(ctx, a.cfg.DetailTimeout)
	defer cancel()

	logger.Debug("Fetching property details", nil)
	body, status, err := a.post(detailCtx, a.cfg.PropertyURL, reqBody)
	if err != nil {
		if status == http.StatusNotFound {
			logger.Warn("Property not found upstream", nil)
			return nil
		}
		if errors.Is(detailCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("Detail request timed out", port.Fields{"timeout": a.cfg.DetailTimeout.String()})
			return nil
		}
		logger.Error("Detail request failed", err, nil)
		return nil
	}

	var resp estatyPropertyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Error("Failed to decode detail response", err, nil)
		return nil
	}
	raw := bytes.TrimSpace(resp.Property)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		logger.Warn("Detail response has no property", nil)
		return nil
	}

	if err := contracts.Validate(contracts.EstatyProperty, contracts.V1, raw); err != nil {
		logger.Warn("Detail payload failed schema validation", port.Fields{"error": err.Error()})
		return nil
	}

	var dto estatyProperty
	if err := json.Unmarshal(raw, &dto); err != nil {
		logger.Error("Failed to decode property", err, nil)
		return nil
	}

	rec := toDomainRecord(&dto)
	if rec.ID == 0 {
		rec.ID = id
	}
	return rec
}
