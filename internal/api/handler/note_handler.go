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

type NoteHandler struct {
	service service.NoteService
}

func NewNoteHandler(service service.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Create handles POST /v1/notes
// @Summary Create a sleep note
// @Description Record a journal entry with behavioral factors for one calendar day.
// @Tags notes
// @Accept json
// @Produce json
// @Param request body domain.CreateNoteRequest true "Note content"
// @Success 201 {object} domain.NoteResponse "Note created"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 422 {object} problem.Problem "Request body contains invalid fields"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /notes [post]
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	note, err := h.service.Create(r.Context(), &req)
	if err != nil {
		problem.InternalError("Failed to create note").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note.ToResponse())
}

// List handles GET /v1/notes
// @Summary List recent notes
// @Tags notes
// @Produce json
// @Param days query integer false "Window in days" default(30) minimum(1) maximum(365)
// @Success 200 {array} domain.NoteResponse "Notes, oldest first"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /notes [get]
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	days := parseIntParam(r, "days", 0)

	notes, err := h.service.ListSince(r.Context(), days)
	if err != nil {
		problem.InternalError("Failed to list notes").Write(w)
		return
	}

	responses := make([]domain.NoteResponse, len(notes))
	for i := range notes {
		responses[i] = notes[i].ToResponse()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetByID handles GET /v1/notes/{noteId}
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param noteId path string true "Note UUID" format(uuid)
// @Success 200 {object} domain.NoteResponse "Note"
// @Failure 400 {object} problem.Problem "Invalid note ID"
// @Failure 404 {object} problem.Problem "Note not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /notes/{noteId} [get]
func (h *NoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "noteId"))
	if err != nil {
		problem.BadRequest("Invalid note ID format").Write(w)
		return
	}

	note, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Note not found").Write(w)
			return
		}
		problem.InternalError("Failed to fetch note").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note.ToResponse())
}

// Delete handles DELETE /v1/notes/{noteId}
// @Summary Delete a note
// @Tags notes
// @Param noteId path string true "Note UUID" format(uuid)
// @Success 204 "Note deleted"
// @Failure 400 {object} problem.Problem "Invalid note ID"
// @Failure 404 {object} problem.Problem "Note not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /notes/{noteId} [delete]
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "noteId"))
	if err != nil {
		problem.BadRequest("Invalid note ID format").Write(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Note not found").Write(w)
			return
		}
		problem.InternalError("Failed to delete note").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
