package handlers

import (
	"net/http"

	"github.com/nirmaan-ai/nirmaan/internal/service"
)

type PolicyHandler struct {
	policy *service.PolicyService
}

func NewPolicyHandler(policy *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policy: policy}
}

// Suggest returns parameter suggestions for a city and building type,
// with exploration noise applied for under-visited states.
func (h *PolicyHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}
	buildingType := r.URL.Query().Get("building_type")

	suggestions := h.policy.Suggest(city, buildingType)
	writeJSON(w, http.StatusOK, map[string]any{
		"city":          city,
		"building_type": buildingType,
		"suggestions":   suggestions,
	})
}

// Stats reports a single state's learned parameters when a city is given,
// otherwise global aggregates across all states.
func (h *PolicyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeJSON(w, http.StatusOK, h.policy.AllStats())
		return
	}

	buildingType := r.URL.Query().Get("building_type")
	writeJSON(w, http.StatusOK, h.policy.Stats(city, buildingType))
}
