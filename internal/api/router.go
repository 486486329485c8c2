package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/somnus-app/somnus/internal/api/handler"
	"github.com/somnus-app/somnus/internal/api/middleware"
)

type Router struct {
	sessionHandler   *handler.SessionHandler
	alarmHandler     *handler.AlarmHandler
	noteHandler      *handler.NoteHandler
	settingsHandler  *handler.SettingsHandler
	analyticsHandler *handler.AnalyticsHandler
	insightsHandler  *handler.InsightsHandler
}

func NewRouter(
	sessionHandler *handler.SessionHandler,
	alarmHandler *handler.AlarmHandler,
	noteHandler *handler.NoteHandler,
	settingsHandler *handler.SettingsHandler,
	analyticsHandler *handler.AnalyticsHandler,
	insightsHandler *handler.InsightsHandler,
) *Router {
	return &Router{
		sessionHandler:   sessionHandler,
		alarmHandler:     alarmHandler,
		noteHandler:      noteHandler,
		settingsHandler:  settingsHandler,
		analyticsHandler: analyticsHandler,
		insightsHandler:  insightsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Sleep sessions
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", rt.sessionHandler.List)
			r.Post("/start", rt.sessionHandler.Start)
			r.Post("/stop", rt.sessionHandler.Stop)
			r.Get("/active", rt.sessionHandler.GetActive)
			r.Get("/{sessionId}", rt.sessionHandler.GetByID)
			r.Delete("/{sessionId}", rt.sessionHandler.Delete)
		})

		// Alarms
		r.Route("/alarms", func(r chi.Router) {
			r.Post("/", rt.alarmHandler.Create)
			r.Get("/", rt.alarmHandler.List)
			r.Get("/active", rt.alarmHandler.Active)
			r.Get("/{alarmId}", rt.alarmHandler.GetByID)
			r.Patch("/{alarmId}", rt.alarmHandler.Update)
			r.Delete("/{alarmId}", rt.alarmHandler.Delete)
			r.Post("/{alarmId}/snooze", rt.alarmHandler.Snooze)
			r.Post("/{alarmId}/dismiss", rt.alarmHandler.Dismiss)
		})

		// Sleep notes
		r.Route("/notes", func(r chi.Router) {
			r.Post("/", rt.noteHandler.Create)
			r.Get("/", rt.noteHandler.List)
			r.Get("/{noteId}", rt.noteHandler.GetByID)
			r.Delete("/{noteId}", rt.noteHandler.Delete)
		})

		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", rt.settingsHandler.Get)
			r.Patch("/", rt.settingsHandler.Update)
		})

		// Analytics
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/trends", rt.analyticsHandler.GetTrends)
			r.Get("/phases", rt.analyticsHandler.GetPhases)
			r.Get("/correlations", rt.analyticsHandler.GetCorrelations)
			r.Get("/weekdays", rt.analyticsHandler.GetWeekdays)
			r.Get("/recommendations", rt.analyticsHandler.GetRecommendations)
			r.Get("/debt", rt.analyticsHandler.GetDebt)
		})

		// Insights
		r.Get("/insights", rt.insightsHandler.GetInsights)
	})

	return r
}
