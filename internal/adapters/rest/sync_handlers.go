package rest

import (
	"net/http"

	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandleStartSync - POST /api/v1/sync/{mode}, запускает прогон в фоне
func (h *Handlers) HandleStartSync(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "HandleStartSync")

	mode, err := domain.ParseSyncMode(chi.URLParam(r, "mode"))
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	runID, err := h.runSyncUC.Start(r.Context(), mode)
	if err != nil {
		logger.Warn("Sync was not started", port.Fields{"mode": string(mode), "error": err.Error()})
		respondError(w, r, err, "")
		return
	}

	logger.Info("Sync run started", port.Fields{"mode": string(mode), "run_id": runID.String()})
	respondOK(w, http.StatusAccepted, "Sync started", map[string]string{"run_id": runID.String()})
}

// HandleLastSync - GET /api/v1/sync/last
func (h *Handlers) HandleLastSync(w http.ResponseWriter, r *http.Request) {
	last := h.runSyncUC.LastRun()
	if last == nil {
		respondFail(w, http.StatusNotFound, "No sync run has finished yet", nil)
		return
	}
	respondOK(w, http.StatusOK, "Last sync run", last)
}
