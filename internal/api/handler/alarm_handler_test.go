package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
)

func alarmRequest(method, target string, body string, alarmID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if alarmID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("alarmId", alarmID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func TestAlarmHandler_Create(t *testing.T) {
	stored := &domain.Alarm{ID: uuid.New(), Time: "07:30", Enabled: true}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"valid alarm",
			`{"time":"07:30","label":"Workday","days":[false,true,true,true,true,true,false],"enabled":true,"snooze_duration_min":9,"snooze_max_count":3}`,
			http.StatusCreated,
		},
		{
			"missing time",
			`{"label":"Workday","snooze_duration_min":9}`,
			http.StatusUnprocessableEntity,
		},
		{
			"malformed time",
			`{"time":"25:99","snooze_duration_min":9}`,
			http.StatusUnprocessableEntity,
		},
		{
			"wake window too large",
			`{"time":"07:30","smart_wake":true,"wake_window_min":90,"snooze_duration_min":9}`,
			http.StatusUnprocessableEntity,
		},
		{
			"invalid json",
			`{`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAlarmHandler(&MockAlarmService{alarm: stored})

			rec := httptest.NewRecorder()
			h.Create(rec, alarmRequest(http.MethodPost, "/v1/alarms", tt.body, ""))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestAlarmHandler_Update(t *testing.T) {
	stored := &domain.Alarm{ID: uuid.New(), Time: "06:45", Enabled: false}

	t.Run("updates", func(t *testing.T) {
		h := NewAlarmHandler(&MockAlarmService{alarm: stored})

		rec := httptest.NewRecorder()
		h.Update(rec, alarmRequest(http.MethodPatch, "/v1/alarms/"+stored.ID.String(),
			`{"time":"06:45","enabled":false}`, stored.ID.String()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var resp domain.AlarmResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Time != "06:45" {
			t.Errorf("Time = %q, want \"06:45\"", resp.Time)
		}
	})

	t.Run("unknown alarm", func(t *testing.T) {
		h := NewAlarmHandler(&MockAlarmService{err: domain.ErrNotFound})

		rec := httptest.NewRecorder()
		h.Update(rec, alarmRequest(http.MethodPatch, "/v1/alarms/"+uuid.NewString(),
			`{"enabled":false}`, uuid.NewString()))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		h := NewAlarmHandler(&MockAlarmService{alarm: stored})

		rec := httptest.NewRecorder()
		h.Update(rec, alarmRequest(http.MethodPatch, "/v1/alarms/nope", `{}`, "nope"))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAlarmHandler_SnoozeAndDismiss(t *testing.T) {
	id := uuid.New()

	t.Run("snooze", func(t *testing.T) {
		h := NewAlarmHandler(&MockAlarmService{})

		rec := httptest.NewRecorder()
		h.Snooze(rec, alarmRequest(http.MethodPost, "/v1/alarms/"+id.String()+"/snooze", "", id.String()))

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("dismiss unknown alarm", func(t *testing.T) {
		h := NewAlarmHandler(&MockAlarmService{err: domain.ErrNotFound})

		rec := httptest.NewRecorder()
		h.Dismiss(rec, alarmRequest(http.MethodPost, "/v1/alarms/"+id.String()+"/dismiss", "", id.String()))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestAlarmHandler_ActiveEmptyList(t *testing.T) {
	h := NewAlarmHandler(&MockAlarmService{})

	rec := httptest.NewRecorder()
	h.Active(rec, httptest.NewRequest(http.MethodGet, "/v1/alarms/active", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// Encodes as an empty array, never null.
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}
