package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/api/validation"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/service"
	"github.com/somnus-app/somnus/pkg/problem"
)

type SessionHandler struct {
	service service.SessionService
}

func NewSessionHandler(service service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Start handles POST /v1/sessions/start
// @Summary Start sleep tracking
// @Description Begin a new sleep session. Only one session may be active at a time.
// @Tags sessions
// @Produce json
// @Success 201 {object} domain.SessionResponse "Session started"
// @Failure 409 {object} problem.Problem "A session is already active"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sessions/start [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Start(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSessionActive) {
			problem.Conflict("A sleep session is already active").Write(w)
			return
		}
		problem.InternalError("Failed to start sleep session").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session.ToResponse())
}

// Stop handles POST /v1/sessions/stop
// @Summary Stop sleep tracking
// @Description Complete the active session. Duration, phases and quality are computed on stop.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body domain.StopSessionRequest true "Observations recorded during the session"
// @Success 200 {object} domain.SessionResponse "Completed session"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 404 {object} problem.Problem "No active session"
// @Failure 422 {object} problem.Problem "Request body contains invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sessions/stop [post]
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	var req domain.StopSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	session, err := h.service.Stop(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			problem.NotFound("No active sleep session").Write(w)
			return
		}
		problem.InternalError("Failed to stop sleep session").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session.ToResponse())
}

// GetActive handles GET /v1/sessions/active
// @Summary Get the active session
// @Tags sessions
// @Produce json
// @Success 200 {object} domain.SessionResponse "Active session"
// @Failure 404 {object} problem.Problem "No active session"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sessions/active [get]
func (h *SessionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			problem.NotFound("No active sleep session").Write(w)
			return
		}
		problem.InternalError("Failed to fetch active session").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session.ToResponse())
}

// GetByID handles GET /v1/sessions/{sessionId}
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param sessionId path string true "Session UUID" format(uuid)
// @Success 200 {object} domain.SessionResponse "Session"
// @Failure 400 {object} problem.Problem "Invalid session ID"
// @Failure 404 {object} problem.Problem "Session not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		problem.BadRequest("Invalid session ID format").Write(w)
		return
	}

	session, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Session not found").Write(w)
			return
		}
		problem.InternalError("Failed to fetch session").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session.ToResponse())
}

// Delete handles DELETE /v1/sessions/{sessionId}
// @Summary Delete a session
// @Tags sessions
// @Param sessionId path string true "Session UUID" format(uuid)
// @Success 204 "Session deleted"
// @Failure 400 {object} problem.Problem "Invalid session ID"
// @Failure 404 {object} problem.Problem "Session not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sessions/{sessionId} [delete]
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		problem.BadRequest("Invalid session ID format").Write(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Session not found").Write(w)
			return
		}
		problem.InternalError("Failed to delete session").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/sessions
// @Summary List sessions
// @Description Fetch paginated session history, newest first. Filter by start date range.
// @Tags sessions
// @Produce json
// @Param from query string false "Start of date range (RFC3339)" format(date-time)
// @Param to query string false "End of date range (RFC3339)" format(date-time)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.SessionListResponse "Sessions with pagination"
// @Failure 422 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, fieldErrors := parseListFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), filter)
	if err != nil {
		problem.InternalError("Failed to list sessions").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseListFilter(r *http.Request) (domain.SessionFilter, []problem.FieldError) {
	var filter domain.SessionFilter
	var fieldErrors []problem.FieldError

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}

	return filter, nil
}
