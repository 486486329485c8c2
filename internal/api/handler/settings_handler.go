package handler

import (
	"encoding/json"
	"net/http"

	"github.com/somnus-app/somnus/internal/api/validation"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/service"
	"github.com/somnus-app/somnus/pkg/problem"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /v1/settings
// @Summary Get settings
// @Tags settings
// @Produce json
// @Success 200 {object} domain.UserSettings "Current settings"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		problem.InternalError("Failed to fetch settings").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// Update handles PATCH /v1/settings
// @Summary Update settings
// @Description Partial update; omitted fields are unchanged.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateSettingsRequest true "Fields to change"
// @Success 200 {object} domain.UserSettings "Updated settings"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 422 {object} problem.Problem "Request body contains invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /settings [patch]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	settings, err := h.service.Update(r.Context(), &req)
	if err != nil {
		problem.InternalError("Failed to update settings").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}
