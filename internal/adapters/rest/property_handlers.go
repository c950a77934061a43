package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandleListProperties - GET /api/v1/properties?page=
func (h *Handlers) HandleListProperties(w http.ResponseWriter, r *http.Request) {
	h.respondPropertyPage(w, r, domain.PropertyFilter{})
}

// HandleFilterProperties - POST /api/v1/properties/filter?page=
func (h *Handlers) HandleFilterProperties(w http.ResponseWriter, r *http.Request) {
	var req PropertyFilterRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondFail(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}
	h.respondPropertyPage(w, r, req.toDomain())
}

func (h *Handlers) respondPropertyPage(w http.ResponseWriter, r *http.Request, filter domain.PropertyFilter) {
	page, err := h.findPropertiesUC.Execute(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		respondError(w, r, err, "Properties not found")
		return
	}
	respondOK(w, http.StatusOK, "Properties fetched successfully", toPageResponse(r, page))
}

// HandlePropertyDetails - GET /api/v1/properties/{id}. Ответ без общего конверта.
func (h *Handlers) HandlePropertyDetails(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "HandlePropertyDetails")

	notFound := map[string]interface{}{
		"property": nil,
		"error": map[string]string{
			"message": "No property found with this ID.",
			"code":    "not_found",
		},
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithJSON(w, http.StatusNotFound, notFound)
		return
	}

	details, err := h.detailsUC.Execute(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		RespondWithJSON(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		logger.Error("Failed to load property details", err, port.Fields{"property_id": id})
		RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"property": nil,
			"error":    map[string]string{"message": "Internal server error", "code": "internal_error"},
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"property": toDetailsResponse(details)})
}

// HandleStatusCounts - GET /api/v1/properties/status-counts
func (h *Handlers) HandleStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.statusCountsUC.Execute(r.Context())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	respondOK(w, http.StatusOK, "Property status counts fetched successfully", counts)
}

// HandleCityCounts - GET /api/v1/properties/city-counts?status=
func (h *Handlers) HandleCityCounts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		RespondWithJSON(w, http.StatusOK, Envelope{Status: false, Message: "Missing 'status' query parameter", Data: []domain.CityCount{}})
		return
	}

	counts, err := h.cityCountsUC.Execute(r.Context(), status)
	if errors.Is(err, domain.ErrNotFound) {
		RespondWithJSON(w, http.StatusNotFound, Envelope{
			Status:  false,
			Message: fmt.Sprintf("No matching PropertyStatus for '%s'", status),
			Data:    []domain.CityCount{},
		})
		return
	}
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	message := fmt.Sprintf("Properties filtered by status '%s'", status)
	if strings.EqualFold(status, domain.TotalStatus) {
		message = "All properties grouped by city (Total)"
	}
	respondOK(w, http.StatusOK, message, counts)
}

// HandleListCities - GET /api/v1/cities
func (h *Handlers) HandleListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.listCitiesUC.Execute(r.Context())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	if cities == nil {
		cities = []domain.Lookup{}
	}
	respondOK(w, http.StatusOK, "Cities fetched successfully", cities)
}
