// Somnus API
//
// REST API for personal sleep tracking: sessions, alarms, notes,
// analytics and AI insights.
//
//	@title			Somnus API
//	@version		1.0
//	@description	Track sleep sessions, schedule smart alarms and analyze sleep quality.
//
//	@BasePath	/v1
//
//	@tag.name			sessions
//	@tag.description	Sleep session tracking endpoints
//
//	@tag.name			alarms
//	@tag.description	Alarm scheduling endpoints
//
//	@tag.name			notes
//	@tag.description	Sleep journal endpoints
//
//	@tag.name			settings
//	@tag.description	User settings endpoints
//
//	@tag.name			analytics
//	@tag.description	Sleep analytics endpoints
//
//	@tag.name			insights
//	@tag.description	AI-generated insights endpoints
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/somnus-app/somnus/internal/alarm"
	"github.com/somnus-app/somnus/internal/api"
	"github.com/somnus-app/somnus/internal/api/handler"
	"github.com/somnus-app/somnus/internal/config"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/llm"
	"github.com/somnus-app/somnus/internal/notify"
	"github.com/somnus-app/somnus/internal/repository"
	"github.com/somnus-app/somnus/internal/seed"
	"github.com/somnus-app/somnus/internal/service"
	"github.com/somnus-app/somnus/internal/sleep"
	"github.com/somnus-app/somnus/internal/telemetry"
	"github.com/somnus-app/somnus/pkg/retry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing (no-op when OTLP_ENDPOINT is unset)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "somnus-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Printf("Failed to shut down tracer: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.SleepSession{}, &domain.Alarm{}, &domain.SleepNote{}, &domain.UserSettings{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding database with sample data (SEED=true)...")
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	alarmRepo := repository.NewAlarmRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize the alarm scheduler
	notifier := notify.NewDesktopNotifier(cfg.NotifyAppName)
	schedulerConfig := alarm.DefaultConfig()
	schedulerConfig.TickInterval = cfg.AlarmTickInterval
	schedulerConfig.ActiveAlarmTTL = cfg.AlarmActiveTTL
	schedulerConfig.Retry = retry.Config{
		MaxRetries:   cfg.NotifyMaxRetries,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Factor:       2,
	}
	schedulerConfig.BreakerFailureThreshold = uint32(cfg.BreakerFailureThreshold)
	schedulerConfig.BreakerTimeout = cfg.BreakerTimeout
	scheduler := alarm.NewScheduler(notifier, logger, alarm.SystemClock(), schedulerConfig, nil)

	// Initialize services
	phases := sleep.NewPhaseGenerator(rand.NewSource(time.Now().UnixNano()))
	sessionService := service.NewSessionService(sessionRepo, phases, scheduler.UpdateActiveSession)
	alarmService := service.NewAlarmService(alarmRepo, scheduler)
	noteService := service.NewNoteService(noteRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	analyticsService := service.NewAnalyticsService(sessionRepo, noteRepo, settingsRepo)

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIInsightsModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, insights endpoint will be unavailable")
	}
	insightsService := service.NewInsightsService(analyticsService, openaiClient)

	// Prime the scheduler with persisted state and start polling
	enabledAlarms, err := alarmRepo.ListEnabled(ctx)
	if err != nil {
		log.Fatalf("Failed to load alarms: %v", err)
	}
	activeSession, err := sessionRepo.GetActive(ctx)
	if err != nil {
		log.Fatalf("Failed to load active session: %v", err)
	}
	scheduler.UpdateActiveSession(activeSession)
	scheduler.Start(ctx, enabledAlarms)
	defer scheduler.Stop()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	alarmHandler := handler.NewAlarmHandler(alarmService)
	noteHandler := handler.NewNoteHandler(noteService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Setup router
	router := api.NewRouter(sessionHandler, alarmHandler, noteHandler, settingsHandler, analyticsHandler, insightsHandler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Setup(),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
