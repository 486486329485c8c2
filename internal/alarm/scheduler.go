// Package alarm implements the alarm scheduling engine: a polling
// state machine that evaluates configured alarms against the clock,
// manages per-alarm snooze state and delivers wake notifications with
// retry and circuit breaking.
package alarm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/sleep"
	"github.com/somnus-app/somnus/pkg/retry"
	"github.com/sony/gobreaker/v2"
)

// ActiveAlarm is the runtime state of a ringing alarm. It exists only
// between trigger and dismissal and is never persisted.
type ActiveAlarm struct {
	Alarm        domain.Alarm
	TriggeredAt  time.Time
	SnoozeCount  int
	SnoozedUntil *time.Time
}

// Config tunes the scheduler's timing and failure handling.
type Config struct {
	// TickInterval is the polling cadence.
	TickInterval time.Duration
	// ActiveAlarmTTL bounds how long an undismissed alarm stays active.
	ActiveAlarmTTL time.Duration
	// Retry tunes notification delivery retries.
	Retry retry.Config
	// BreakerFailureThreshold is the consecutive-failure count that
	// opens the notification circuit.
	BreakerFailureThreshold uint32
	// BreakerTimeout is how long the circuit stays open before a
	// half-open recovery probe.
	BreakerTimeout time.Duration
	// BreakerMaxRequests is the number of probes allowed half-open.
	BreakerMaxRequests uint32
}

// DefaultConfig returns the reference scheduler tuning: 30 second
// ticks, 1 hour active-alarm retention, 3 notification retries and a
// breaker that opens after 3 consecutive failures for a minute.
func DefaultConfig() Config {
	return Config{
		TickInterval:            30 * time.Second,
		ActiveAlarmTTL:          time.Hour,
		Retry:                   retry.Config{MaxRetries: 3, InitialDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second, Factor: 2},
		BreakerFailureThreshold: 3,
		BreakerTimeout:          time.Minute,
		BreakerMaxRequests:      1,
	}
}

// triggerTolerance is how close the clock must be to a smart-wake
// cycle boundary (or to window entry) for the alarm to fire.
const triggerTolerance = 30 * time.Second

// Scheduler evaluates alarms on a periodic tick. The host pushes alarm
// and active-session snapshots via the Update methods; the scheduler
// owns the active-alarm map and the notification circuit breaker and
// never mutates the snapshots it is given.
type Scheduler struct {
	notifier  Notifier
	breaker   *gobreaker.CircuitBreaker[any]
	logger    *slog.Logger
	clock     Clock
	config    Config
	onTrigger func(domain.Alarm)

	mu          sync.Mutex
	alarms      []domain.Alarm
	activeSleep *domain.SleepSession
	active      map[uuid.UUID]*ActiveAlarm

	runMu    sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a stopped scheduler. onTrigger may be nil; when
// set it is invoked after each trigger, and its panics are contained.
func NewScheduler(notifier Notifier, logger *slog.Logger, clock Clock, config Config, onTrigger func(domain.Alarm)) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = SystemClock()
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}
	if config.ActiveAlarmTTL <= 0 {
		config.ActiveAlarmTTL = DefaultConfig().ActiveAlarmTTL
	}

	s := &Scheduler{
		notifier:  notifier,
		logger:    logger,
		clock:     clock,
		config:    config,
		onTrigger: onTrigger,
		active:    make(map[uuid.UUID]*ActiveAlarm),
	}

	settings := gobreaker.Settings{
		Name:        "alarm-notifications",
		MaxRequests: config.BreakerMaxRequests,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("notification circuit breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	s.breaker = gobreaker.NewCircuitBreaker[any](settings)

	return s
}

// Start replaces the alarm snapshot, runs an immediate check and
// begins the polling loop. Any previously running loop is stopped
// first, so restarts never leak tickers.
func (s *Scheduler) Start(ctx context.Context, alarms []domain.Alarm) {
	s.Stop()

	s.UpdateAlarms(alarms)

	s.runMu.Lock()
	s.running = true
	s.stopChan = make(chan struct{})
	stopChan := s.stopChan
	s.runMu.Unlock()

	s.CheckOnce(ctx)

	s.wg.Add(1)
	go s.run(ctx, stopChan)

	s.logger.Info("alarm scheduler started",
		"tick_interval", s.config.TickInterval,
		"alarms", len(alarms),
	)
}

// Stop halts future ticks. Already-active alarms stay active until
// dismissed or garbage collected by a later run.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.runMu.Unlock()

	s.wg.Wait()
	s.logger.Info("alarm scheduler stopped")
}

// IsRunning reports whether the polling loop is active.
func (s *Scheduler) IsRunning() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.running
}

// UpdateAlarms replaces the alarm snapshot evaluated on future ticks.
func (s *Scheduler) UpdateAlarms(alarms []domain.Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = alarms
}

// UpdateActiveSession replaces the in-progress sleep session used for
// smart-wake cycle alignment. Pass nil when tracking stops.
func (s *Scheduler) UpdateActiveSession(session *domain.SleepSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSleep = session
}

func (s *Scheduler) run(ctx context.Context, stopChan chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopChan:
			return
		case <-ticker.C:
			s.CheckOnce(ctx)
		}
	}
}

// CheckOnce runs a single synchronous evaluation pass over all alarms.
// It is called on every tick and on (re)configuration, and is exported
// for deterministic tests.
func (s *Scheduler) CheckOnce(ctx context.Context) {
	now := s.clock.Now()

	s.mu.Lock()
	alarms := s.alarms
	s.mu.Unlock()

	for i := range alarms {
		s.evaluateAlarm(ctx, &alarms[i], now)
	}

	s.collectStale(now)
}

// evaluateAlarm checks one alarm in isolation: a panic or error here
// is logged and never aborts the rest of the tick.
func (s *Scheduler) evaluateAlarm(ctx context.Context, a *domain.Alarm, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("alarm evaluation panicked",
				"alarm_id", a.ID,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if !a.Enabled || !a.Days.On(now.Weekday()) {
		return
	}

	s.mu.Lock()
	entry, isActive := s.active[a.ID]
	var snoozeElapsed bool
	if isActive && entry.SnoozedUntil != nil && !now.Before(*entry.SnoozedUntil) {
		entry.SnoozedUntil = nil
		snoozeElapsed = true
	}
	s.mu.Unlock()

	if isActive {
		// Already ringing; only a lapsed snooze re-triggers.
		if snoozeElapsed {
			s.deliver(ctx, *a, now)
		}
		return
	}

	shouldFire, err := s.shouldTrigger(a, now)
	if err != nil {
		s.logger.Error("alarm evaluation failed", "alarm_id", a.ID, "error", err)
		return
	}
	if !shouldFire {
		return
	}

	// Record the alarm as ringing before attempting delivery so the
	// in-app indicator works even when notifications are down.
	s.mu.Lock()
	s.active[a.ID] = &ActiveAlarm{Alarm: *a, TriggeredAt: now}
	s.mu.Unlock()

	s.deliver(ctx, *a, now)
}

// shouldTrigger decides whether an idle alarm fires at the given
// instant.
func (s *Scheduler) shouldTrigger(a *domain.Alarm, now time.Time) (bool, error) {
	if !a.SmartWake {
		// Exact match to the minute.
		return now.Format("15:04") == a.Time, nil
	}

	alarmAt, err := a.AtTime(now)
	if err != nil {
		return false, err
	}
	windowStart := alarmAt.Add(-time.Duration(a.WakeWindowMin) * time.Minute)

	if now.Before(windowStart) || now.After(alarmAt) {
		return false, nil
	}

	s.mu.Lock()
	activeSleep := s.activeSleep
	s.mu.Unlock()

	if activeSleep != nil {
		if optimal, ok := s.optimalWakeTime(a, activeSleep, now, windowStart, alarmAt); ok {
			diff := now.Sub(optimal)
			if diff < 0 {
				diff = -diff
			}
			return diff <= triggerTolerance, nil
		}
	}

	// No session to align with: fire once, just after entering the
	// window (edge-triggered, never re-fired on later ticks).
	return now.Sub(windowStart) < triggerTolerance, nil
}

// optimalWakeTime finds the wake instant closest to a light-sleep
// moment: the earliest 90-minute cycle boundary inside the wake window
// that has not yet passed. When every boundary in the window has
// passed it returns now, firing immediately. With no boundary inside
// the window at all it reports false and the caller falls back to the
// window-entry rule.
func (s *Scheduler) optimalWakeTime(a *domain.Alarm, session *domain.SleepSession, now, windowStart, alarmAt time.Time) (time.Time, bool) {
	cycle := time.Duration(sleep.CycleMinutes) * time.Minute

	var inWindow []time.Time
	for boundary := session.StartAt; !boundary.After(alarmAt); boundary = boundary.Add(cycle) {
		if !boundary.Before(windowStart) {
			inWindow = append(inWindow, boundary)
		}
	}

	if len(inWindow) == 0 {
		return time.Time{}, false
	}

	for _, boundary := range inWindow {
		if !boundary.Before(now) {
			return boundary, true
		}
	}

	return now, true
}

// deliver attempts the wake notification behind the circuit breaker
// and retry policy, then invokes the trigger callback. Failures are
// logged and surfaced as a warning only; the alarm stays active.
func (s *Scheduler) deliver(ctx context.Context, a domain.Alarm, now time.Time) {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, retry.Do(ctx, s.config.Retry, func() error {
			return s.notifier.Notify(ctx, a)
		})
	})
	if err != nil {
		s.logger.Warn("alarm notification delivery failed",
			"alarm_id", a.ID,
			"label", a.Label,
			"error", err,
		)
	} else {
		s.logger.Info("alarm triggered",
			"alarm_id", a.ID,
			"label", a.Label,
			"at", now.Format(time.RFC3339),
		)
	}

	if s.onTrigger != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("alarm trigger callback panicked",
						"alarm_id", a.ID,
						"panic", fmt.Sprint(r),
					)
				}
			}()
			s.onTrigger(a)
		}()
	}
}

// Snooze suppresses an active alarm for its configured snooze
// duration. Snoozing past the maximum count dismisses the alarm
// instead. Snoozing an inactive alarm is a warned no-op.
func (s *Scheduler) Snooze(id uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("cannot snooze alarm: not active", "alarm_id", id)
		return
	}

	if entry.SnoozeCount >= entry.Alarm.SnoozeMaxCount {
		s.mu.Unlock()
		s.logger.Warn("cannot snooze alarm: max snooze count reached",
			"alarm_id", id,
			"snooze_count", entry.SnoozeCount,
		)
		s.Dismiss(id)
		return
	}

	until := s.clock.Now().Add(time.Duration(entry.Alarm.SnoozeDurationMin) * time.Minute)
	entry.SnoozeCount++
	entry.SnoozedUntil = &until
	count, max := entry.SnoozeCount, entry.Alarm.SnoozeMaxCount
	s.mu.Unlock()

	s.logger.Info("alarm snoozed",
		"alarm_id", id,
		"until", until.Format(time.RFC3339),
		"count", fmt.Sprintf("%d/%d", count, max),
	)
}

// Dismiss removes an active alarm. Dismissing an inactive alarm is a
// warned no-op.
func (s *Scheduler) Dismiss(id uuid.UUID) {
	s.mu.Lock()
	_, ok := s.active[id]
	if ok {
		delete(s.active, id)
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("cannot dismiss alarm: not active", "alarm_id", id)
		return
	}
	s.logger.Info("alarm dismissed", "alarm_id", id)
}

// ActiveAlarms returns a snapshot of the currently ringing alarms.
func (s *Scheduler) ActiveAlarms() []ActiveAlarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]ActiveAlarm, 0, len(s.active))
	for _, entry := range s.active {
		snapshot = append(snapshot, *entry)
	}
	return snapshot
}

// IsActive reports whether the given alarm is currently ringing.
func (s *Scheduler) IsActive(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[id]
	return ok
}

// collectStale drops active entries older than the TTL so ignored
// alarms do not linger forever.
func (s *Scheduler) collectStale(now time.Time) {
	cutoff := now.Add(-s.config.ActiveAlarmTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.active {
		if entry.TriggeredAt.Before(cutoff) {
			delete(s.active, id)
			s.logger.Info("stale active alarm collected",
				"alarm_id", id,
				"triggered_at", entry.TriggeredAt.Format(time.RFC3339),
			)
		}
	}
}
