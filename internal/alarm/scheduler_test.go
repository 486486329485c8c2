package alarm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/pkg/retry"
)

// fakeClock is a settable clock for deterministic ticks.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeNotifier records deliveries and can be told to fail.
type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *fakeNotifier) Notify(ctx context.Context, alarm domain.Alarm) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func (n *fakeNotifier) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func everyDay() domain.Weekdays {
	return domain.Weekdays{true, true, true, true, true, true, true}
}

func testAlarm(timeStr string, mutate func(*domain.Alarm)) domain.Alarm {
	a := domain.Alarm{
		ID:                uuid.New(),
		Time:              timeStr,
		Label:             "test",
		Days:              everyDay(),
		Enabled:           true,
		SnoozeDurationMin: 9,
		SnoozeMaxCount:    3,
	}
	if mutate != nil {
		mutate(&a)
	}
	return a
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry = retry.Config{MaxRetries: 0, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Factor: 1}
	return cfg
}

func newTestScheduler(clock Clock, notifier Notifier, cfg Config) *Scheduler {
	return NewScheduler(notifier, slog.Default(), clock, cfg, nil)
}

// monday returns 2024-03-11 (a Monday) at the given wall time.
func monday(hour, minute, second int) time.Time {
	return time.Date(2024, 3, 11, hour, minute, second, 0, time.UTC)
}

func TestExactTimeTrigger(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one minute early", monday(7, 29, 0), false},
		{"on the minute", monday(7, 30, 0), true},
		{"mid minute", monday(7, 30, 45), true},
		{"one minute late", monday(7, 31, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock(tt.now)
			notifier := &fakeNotifier{}
			s := newTestScheduler(clock, notifier, testConfig())

			a := testAlarm("07:30", nil)
			s.UpdateAlarms([]domain.Alarm{a})
			s.CheckOnce(context.Background())

			if got := s.IsActive(a.ID); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
			wantCalls := 0
			if tt.want {
				wantCalls = 1
			}
			if notifier.Calls() != wantCalls {
				t.Errorf("notifier calls = %d, want %d", notifier.Calls(), wantCalls)
			}
		})
	}
}

func TestDisabledAndOffDayAlarmsAreSkipped(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())

	disabled := testAlarm("07:30", func(a *domain.Alarm) { a.Enabled = false })
	offDay := testAlarm("07:30", func(a *domain.Alarm) {
		a.Days = domain.Weekdays{}
		a.Days[int(time.Sunday)] = true
	})

	s.UpdateAlarms([]domain.Alarm{disabled, offDay})
	s.CheckOnce(context.Background())

	if len(s.ActiveAlarms()) != 0 {
		t.Errorf("ActiveAlarms() = %v, want none", s.ActiveAlarms())
	}
}

func TestAlarmAlreadyActiveDoesNotRetrigger(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())

	a := testAlarm("07:30", nil)
	s.UpdateAlarms([]domain.Alarm{a})
	s.CheckOnce(context.Background())
	s.CheckOnce(context.Background())

	if notifier.Calls() != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.Calls())
	}
}

func TestSmartWakeWindowEntryFiresOnce(t *testing.T) {
	// wakeWindow 15 on a 07:00 alarm opens the window at 06:45. With
	// no tracked session the alarm fires once just inside the window.
	a := testAlarm("07:00", func(al *domain.Alarm) {
		al.SmartWake = true
		al.WakeWindowMin = 15
	})

	clock := newFakeClock(monday(6, 45, 10))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())
	s.UpdateAlarms([]domain.Alarm{a})

	s.CheckOnce(context.Background())
	if !s.IsActive(a.ID) {
		t.Fatal("alarm did not fire at window entry")
	}

	// Dismiss and keep ticking inside the window: no re-fire.
	s.Dismiss(a.ID)
	for _, at := range []time.Time{monday(6, 50, 0), monday(6, 59, 0)} {
		clock.Set(at)
		s.CheckOnce(context.Background())
		if s.IsActive(a.ID) {
			t.Errorf("alarm re-fired at %s inside the window", at.Format("15:04"))
		}
	}

	if notifier.Calls() != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.Calls())
	}
}

func TestSmartWakeOutsideWindowNeverFires(t *testing.T) {
	a := testAlarm("07:00", func(al *domain.Alarm) {
		al.SmartWake = true
		al.WakeWindowMin = 15
	})

	for _, at := range []time.Time{monday(6, 30, 0), monday(7, 1, 0)} {
		clock := newFakeClock(at)
		notifier := &fakeNotifier{}
		s := newTestScheduler(clock, notifier, testConfig())
		s.UpdateAlarms([]domain.Alarm{a})
		s.CheckOnce(context.Background())

		if s.IsActive(a.ID) {
			t.Errorf("alarm fired at %s outside the window", at.Format("15:04"))
		}
	}
}

func TestSmartWakeAlignsToCycleBoundary(t *testing.T) {
	// Sleep started Sunday 23:30; 90-minute boundaries land at 01:00,
	// 02:30, 04:00, 05:30 and 07:00. Only 07:00 is inside the
	// 06:45-07:00 window, so the alarm must hold until then.
	start := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	session := &domain.SleepSession{ID: uuid.New(), StartAt: start}

	a := testAlarm("07:00", func(al *domain.Alarm) {
		al.SmartWake = true
		al.WakeWindowMin = 15
	})

	clock := newFakeClock(monday(6, 50, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())
	s.UpdateAlarms([]domain.Alarm{a})
	s.UpdateActiveSession(session)

	s.CheckOnce(context.Background())
	if s.IsActive(a.ID) {
		t.Fatal("alarm fired mid-window, 10 minutes before the cycle boundary")
	}

	clock.Set(monday(6, 59, 40))
	s.CheckOnce(context.Background())
	if !s.IsActive(a.ID) {
		t.Fatal("alarm did not fire within tolerance of the cycle boundary")
	}
}

func TestSmartWakeFiresImmediatelyWhenBoundariesPassed(t *testing.T) {
	// Sleep started Sunday 22:00; the only boundary inside the
	// 06:50-07:10 window is 07:00. At 07:05 it has passed, so the
	// alarm fires immediately.
	start := time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC)
	session := &domain.SleepSession{ID: uuid.New(), StartAt: start}

	a := testAlarm("07:10", func(al *domain.Alarm) {
		al.SmartWake = true
		al.WakeWindowMin = 20
	})

	clock := newFakeClock(monday(7, 5, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())
	s.UpdateAlarms([]domain.Alarm{a})
	s.UpdateActiveSession(session)

	s.CheckOnce(context.Background())
	if !s.IsActive(a.ID) {
		t.Fatal("alarm did not fire after all cycle boundaries had passed")
	}
}

func TestSnoozeSuppressesUntilExpiryThenRetriggers(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())

	a := testAlarm("07:30", nil)
	s.UpdateAlarms([]domain.Alarm{a})
	s.CheckOnce(context.Background())

	s.Snooze(a.ID)

	active := s.ActiveAlarms()
	if len(active) != 1 || active[0].SnoozeCount != 1 || active[0].SnoozedUntil == nil {
		t.Fatalf("ActiveAlarms() = %+v, want one snoozed entry", active)
	}

	// Still suppressed before expiry.
	clock.Advance(5 * time.Minute)
	s.CheckOnce(context.Background())
	if notifier.Calls() != 1 {
		t.Errorf("notifier calls = %d, want 1 while snoozed", notifier.Calls())
	}

	// Past expiry the alarm rings again.
	clock.Advance(5 * time.Minute)
	s.CheckOnce(context.Background())
	if notifier.Calls() != 2 {
		t.Errorf("notifier calls = %d, want 2 after snooze expiry", notifier.Calls())
	}
}

func TestSnoozeBeyondMaxCountDismisses(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())

	a := testAlarm("07:30", func(al *domain.Alarm) { al.SnoozeMaxCount = 2 })
	s.UpdateAlarms([]domain.Alarm{a})
	s.CheckOnce(context.Background())

	s.Snooze(a.ID)
	s.Snooze(a.ID)
	if !s.IsActive(a.ID) {
		t.Fatal("alarm dismissed before max snooze count")
	}

	s.Snooze(a.ID)
	if s.IsActive(a.ID) {
		t.Error("alarm still active after snoozing past max count, want dismissal")
	}
}

func TestSnoozeAndDismissInactiveAlarmAreNoOps(t *testing.T) {
	clock := newFakeClock(monday(12, 0, 0))
	s := newTestScheduler(clock, &fakeNotifier{}, testConfig())

	// Must not panic or create state.
	id := uuid.New()
	s.Snooze(id)
	s.Dismiss(id)

	if len(s.ActiveAlarms()) != 0 {
		t.Errorf("ActiveAlarms() = %v, want none", s.ActiveAlarms())
	}
}

func TestNotificationFailureStillActivatesAlarm(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{err: errors.New("delivery down")}
	s := newTestScheduler(clock, notifier, testConfig())

	a := testAlarm("07:30", nil)
	s.UpdateAlarms([]domain.Alarm{a})
	s.CheckOnce(context.Background())

	if !s.IsActive(a.ID) {
		t.Error("alarm not active after notification failure")
	}
}

func TestCircuitBreakerShortCircuitsRepeatedFailures(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerFailureThreshold = 1

	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{err: errors.New("delivery down")}
	s := newTestScheduler(clock, notifier, cfg)

	first := testAlarm("07:30", nil)
	second := testAlarm("07:30", nil)
	s.UpdateAlarms([]domain.Alarm{first, second})
	s.CheckOnce(context.Background())

	// The first failure opens the breaker; the second delivery is
	// rejected without reaching the notifier.
	if notifier.Calls() != 1 {
		t.Errorf("notifier calls = %d, want 1 with open breaker", notifier.Calls())
	}
	if !s.IsActive(first.ID) || !s.IsActive(second.ID) {
		t.Error("both alarms should be active despite delivery failures")
	}
}

func TestStaleActiveAlarmsAreCollected(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())

	a := testAlarm("07:30", nil)
	s.UpdateAlarms([]domain.Alarm{a})
	s.CheckOnce(context.Background())
	if !s.IsActive(a.ID) {
		t.Fatal("alarm did not trigger")
	}

	clock.Advance(61 * time.Minute)
	s.CheckOnce(context.Background())

	if s.IsActive(a.ID) {
		t.Error("stale active alarm survived garbage collection")
	}
	if len(s.ActiveAlarms()) != 0 {
		t.Errorf("ActiveAlarms() = %v, want none after collection", s.ActiveAlarms())
	}
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = 5 * time.Millisecond

	clock := newFakeClock(monday(12, 0, 0))
	s := newTestScheduler(clock, &fakeNotifier{}, cfg)

	s.Start(context.Background(), nil)
	if !s.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}

	// Restarting must replace the previous loop, not stack a second one.
	s.Start(context.Background(), nil)
	if !s.IsRunning() {
		t.Fatal("scheduler not running after restart")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler still running after Stop")
	}

	// Stop is idempotent.
	s.Stop()
}

func TestEvaluationErrorIsIsolated(t *testing.T) {
	clock := newFakeClock(monday(7, 30, 0))
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier, testConfig())

	broken := testAlarm("not-a-time", func(al *domain.Alarm) {
		al.SmartWake = true
		al.WakeWindowMin = 10
	})
	healthy := testAlarm("07:30", nil)

	s.UpdateAlarms([]domain.Alarm{broken, healthy})
	s.CheckOnce(context.Background())

	if !s.IsActive(healthy.ID) {
		t.Error("healthy alarm not evaluated after another alarm errored")
	}
	if s.IsActive(broken.ID) {
		t.Error("broken alarm unexpectedly active")
	}
}
