package rest

import (
	"net/http"

	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

const agentNotFound = "Agent not found"

// HandleRegisterAgent - POST /api/v1/agents/register, создает или обновляет по username
func (h *Handlers) HandleRegisterAgent(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "HandleRegisterAgent")

	var changes domain.AgentChanges
	if err := decodeJSON(r, &changes); err != nil {
		respondFail(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	agent, created, err := h.registerAgentUC.Execute(r.Context(), changes)
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}

	logger.Info("Agent registered", port.Fields{"agent_id": agent.ID, "created": created})
	if created {
		respondOK(w, http.StatusCreated, "Agent registered successfully", agent)
		return
	}
	respondOK(w, http.StatusOK, "Agent updated successfully", agent)
}

// HandleUpdateAgent - PUT /api/v1/agents/{id}, частичное обновление
func (h *Handlers) HandleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}

	var changes domain.AgentChanges
	if err := decodeJSON(r, &changes); err != nil {
		respondFail(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	agent, err := h.updateAgentUC.Execute(r.Context(), id, changes)
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}
	respondOK(w, http.StatusOK, "Agent updated successfully", agent)
}

// HandleDeleteAgent - DELETE /api/v1/agents/{id}
func (h *Handlers) HandleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}
	if err := h.deleteAgentUC.Execute(r.Context(), id); err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}
	respondOK(w, http.StatusOK, "Agent deleted successfully", nil)
}

// HandleListAgents - GET /api/v1/agents
func (h *Handlers) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.listAgentsUC.Execute(r.Context())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	if agents == nil {
		agents = []domain.Agent{}
	}
	respondOK(w, http.StatusOK, "Agents fetched successfully", agents)
}

// HandleGetAgent - GET /api/v1/agents/{id}
func (h *Handlers) HandleGetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}
	agent, err := h.getAgentUC.ByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}
	respondOK(w, http.StatusOK, "Agent fetched successfully", agent)
}

// HandleGetAgentByUsername - GET /api/v1/agents/by-username/{username}
func (h *Handlers) HandleGetAgentByUsername(w http.ResponseWriter, r *http.Request) {
	agent, err := h.getAgentUC.ByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, err, agentNotFound)
		return
	}
	respondOK(w, http.StatusOK, "Agent fetched successfully", agent)
}
