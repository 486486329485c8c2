package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/api/validation"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/service"
	"github.com/somnus-app/somnus/pkg/problem"
)

type AlarmHandler struct {
	service service.AlarmService
}

func NewAlarmHandler(service service.AlarmService) *AlarmHandler {
	return &AlarmHandler{service: service}
}

// Create handles POST /v1/alarms
// @Summary Create an alarm
// @Tags alarms
// @Accept json
// @Produce json
// @Param request body domain.CreateAlarmRequest true "Alarm configuration"
// @Success 201 {object} domain.AlarmResponse "Alarm created"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 422 {object} problem.Problem "Request body contains invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms [post]
func (h *AlarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	alarm, err := h.service.Create(r.Context(), &req)
	if err != nil {
		problem.InternalError("Failed to create alarm").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(alarm.ToResponse())
}

// List handles GET /v1/alarms
// @Summary List alarms
// @Tags alarms
// @Produce json
// @Success 200 {array} domain.AlarmResponse "Configured alarms"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms [get]
func (h *AlarmHandler) List(w http.ResponseWriter, r *http.Request) {
	alarms, err := h.service.List(r.Context())
	if err != nil {
		problem.InternalError("Failed to list alarms").Write(w)
		return
	}

	responses := make([]domain.AlarmResponse, len(alarms))
	for i := range alarms {
		responses[i] = alarms[i].ToResponse()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetByID handles GET /v1/alarms/{alarmId}
// @Summary Get an alarm
// @Tags alarms
// @Produce json
// @Param alarmId path string true "Alarm UUID" format(uuid)
// @Success 200 {object} domain.AlarmResponse "Alarm"
// @Failure 400 {object} problem.Problem "Invalid alarm ID"
// @Failure 404 {object} problem.Problem "Alarm not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms/{alarmId} [get]
func (h *AlarmHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "alarmId"))
	if err != nil {
		problem.BadRequest("Invalid alarm ID format").Write(w)
		return
	}

	alarm, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Alarm not found").Write(w)
			return
		}
		problem.InternalError("Failed to fetch alarm").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alarm.ToResponse())
}

// Update handles PATCH /v1/alarms/{alarmId}
// @Summary Update an alarm
// @Description Partial update; omitted fields are unchanged. Disabling a ringing alarm silences it.
// @Tags alarms
// @Accept json
// @Produce json
// @Param alarmId path string true "Alarm UUID" format(uuid)
// @Param request body domain.UpdateAlarmRequest true "Fields to change"
// @Success 200 {object} domain.AlarmResponse "Updated alarm"
// @Failure 400 {object} problem.Problem "Invalid alarm ID or body"
// @Failure 404 {object} problem.Problem "Alarm not found"
// @Failure 422 {object} problem.Problem "Request body contains invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms/{alarmId} [patch]
func (h *AlarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "alarmId"))
	if err != nil {
		problem.BadRequest("Invalid alarm ID format").Write(w)
		return
	}

	var req domain.UpdateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	alarm, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Alarm not found").Write(w)
			return
		}
		problem.InternalError("Failed to update alarm").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alarm.ToResponse())
}

// Delete handles DELETE /v1/alarms/{alarmId}
// @Summary Delete an alarm
// @Tags alarms
// @Param alarmId path string true "Alarm UUID" format(uuid)
// @Success 204 "Alarm deleted"
// @Failure 400 {object} problem.Problem "Invalid alarm ID"
// @Failure 404 {object} problem.Problem "Alarm not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms/{alarmId} [delete]
func (h *AlarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "alarmId"))
	if err != nil {
		problem.BadRequest("Invalid alarm ID format").Write(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Alarm not found").Write(w)
			return
		}
		problem.InternalError("Failed to delete alarm").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Snooze handles POST /v1/alarms/{alarmId}/snooze
// @Summary Snooze a ringing alarm
// @Description Suppress the alarm for its configured snooze duration. Snoozing past the maximum count dismisses it instead. Snoozing an alarm that is not ringing has no effect.
// @Tags alarms
// @Param alarmId path string true "Alarm UUID" format(uuid)
// @Success 204 "Snooze applied"
// @Failure 400 {object} problem.Problem "Invalid alarm ID"
// @Failure 404 {object} problem.Problem "Alarm not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms/{alarmId}/snooze [post]
func (h *AlarmHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "alarmId"))
	if err != nil {
		problem.BadRequest("Invalid alarm ID format").Write(w)
		return
	}

	if err := h.service.Snooze(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Alarm not found").Write(w)
			return
		}
		problem.InternalError("Failed to snooze alarm").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Dismiss handles POST /v1/alarms/{alarmId}/dismiss
// @Summary Dismiss a ringing alarm
// @Description Silence the alarm until its next scheduled trigger. Dismissing an alarm that is not ringing has no effect.
// @Tags alarms
// @Param alarmId path string true "Alarm UUID" format(uuid)
// @Success 204 "Alarm dismissed"
// @Failure 400 {object} problem.Problem "Invalid alarm ID"
// @Failure 404 {object} problem.Problem "Alarm not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /alarms/{alarmId}/dismiss [post]
func (h *AlarmHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "alarmId"))
	if err != nil {
		problem.BadRequest("Invalid alarm ID format").Write(w)
		return
	}

	if err := h.service.Dismiss(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Alarm not found").Write(w)
			return
		}
		problem.InternalError("Failed to dismiss alarm").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Active handles GET /v1/alarms/active
// @Summary List ringing alarms
// @Tags alarms
// @Produce json
// @Success 200 {array} domain.ActiveAlarmResponse "Currently ringing alarms"
// @Router /alarms/active [get]
func (h *AlarmHandler) Active(w http.ResponseWriter, r *http.Request) {
	active := h.service.Active(r.Context())

	responses := make([]domain.ActiveAlarmResponse, len(active))
	for i, entry := range active {
		responses[i] = domain.ActiveAlarmResponse{
			Alarm:        entry.Alarm.ToResponse(),
			TriggeredAt:  entry.TriggeredAt,
			SnoozeCount:  entry.SnoozeCount,
			SnoozedUntil: entry.SnoozedUntil,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}
