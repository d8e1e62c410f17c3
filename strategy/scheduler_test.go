package strategy

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
)

type fakeCounter struct {
	ref    time.Time
	hourly int
	daily  int
	err    error
}

func (f fakeCounter) CountPostedSince(t time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.ref.Sub(t) <= 2*time.Hour {
		return f.hourly, nil
	}
	return f.daily, nil
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		BaseInterval: 120 * time.Minute,
		MinInterval:  60 * time.Minute,
		MaxInterval:  240 * time.Minute,
		MaxPerHour:   5,
		MaxPerDay:    20,
		QuietStart:   -1,
		QuietEnd:     -1,
	}
}

func newTestScheduler(cfg SchedulerConfig, counter fakeCounter) *Scheduler {
	s := NewScheduler(cfg, counter, rand.New(rand.NewSource(1)))
	if !counter.ref.IsZero() {
		s.now = func() time.Time { return counter.ref }
	}
	return s
}

func TestCanPostNowHourlyCap(t *testing.T) {
	ref := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := newTestScheduler(testSchedulerConfig(), fakeCounter{ref: ref, hourly: 4, daily: 10})
	if ok, reason := s.CanPostNow(); !ok {
		t.Fatalf("gate should be open: %s", reason)
	}

	s = newTestScheduler(testSchedulerConfig(), fakeCounter{ref: ref, hourly: 5, daily: 10})
	ok, reason := s.CanPostNow()
	if ok {
		t.Fatal("gate should be closed at the hourly cap")
	}
	if !strings.Contains(reason, "hourly cap") {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestCanPostNowDailyCap(t *testing.T) {
	ref := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(testSchedulerConfig(), fakeCounter{ref: ref, hourly: 1, daily: 20})

	ok, reason := s.CanPostNow()
	if ok {
		t.Fatal("gate should be closed at the daily cap")
	}
	if !strings.Contains(reason, "daily cap") {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestCanPostNowCounterError(t *testing.T) {
	s := newTestScheduler(testSchedulerConfig(), fakeCounter{err: errors.New("db closed")})
	if ok, _ := s.CanPostNow(); ok {
		t.Fatal("gate must fail closed when the rate window is unavailable")
	}
}

func TestCanPostNowQuietHours(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.QuietStart, cfg.QuietEnd = 23, 6

	ref := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	s := newTestScheduler(cfg, fakeCounter{ref: ref})
	ok, reason := s.CanPostNow()
	if ok {
		t.Fatal("03:00 is inside a 23-6 blackout")
	}
	if !strings.Contains(reason, "quiet hours") {
		t.Fatalf("unexpected reason %q", reason)
	}

	ref = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s = newTestScheduler(cfg, fakeCounter{ref: ref})
	if ok, reason := s.CanPostNow(); !ok {
		t.Fatalf("noon is outside the blackout: %s", reason)
	}
}

func TestInQuietHours(t *testing.T) {
	cases := []struct {
		hour, start, end int
		want             bool
	}{
		{23, 23, 6, true},
		{2, 23, 6, true},
		{6, 23, 6, false},
		{12, 23, 6, false},
		{9, 8, 17, true},
		{17, 8, 17, false},
		{7, 8, 17, false},
		{5, 5, 5, false},
	}
	for _, c := range cases {
		if got := inQuietHours(c.hour, c.start, c.end); got != c.want {
			t.Errorf("inQuietHours(%d, %d, %d) = %v, want %v", c.hour, c.start, c.end, got, c.want)
		}
	}
}

func TestNextDelayBounds(t *testing.T) {
	s := newTestScheduler(testSchedulerConfig(), fakeCounter{})
	lo := time.Duration(float64(120*time.Minute) * 0.75)
	hi := time.Duration(float64(120*time.Minute) * 1.25)
	for i := 0; i < 1000; i++ {
		d := s.NextDelay()
		if d < lo || d > hi {
			t.Fatalf("delay %v outside jitter bounds [%v, %v]", d, lo, hi)
		}
	}
}

func TestNextDelayClamped(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.BaseInterval = 60 * time.Minute
	cfg.MinInterval = 55 * time.Minute
	s := newTestScheduler(cfg, fakeCounter{})
	for i := 0; i < 1000; i++ {
		if d := s.NextDelay(); d < cfg.MinInterval {
			t.Fatalf("delay %v below MinInterval %v", d, cfg.MinInterval)
		}
	}
}

func waitForCycle(t *testing.T, cycles <-chan struct{}) {
	t.Helper()
	select {
	case <-cycles:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a cycle")
	}
}

func TestRunLifecycle(t *testing.T) {
	s := newTestScheduler(testSchedulerConfig(), fakeCounter{})
	wait := make(chan time.Time)
	s.waitFn = func(d time.Duration) <-chan time.Time { return wait }

	cycles := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx, func(ctx context.Context) { cycles <- struct{}{} })
		close(done)
	}()

	// Timer fires, one cycle runs.
	wait <- time.Now()
	waitForCycle(t, cycles)

	// Operator trigger runs a cycle without waiting for the timer.
	s.Trigger()
	waitForCycle(t, cycles)

	// Paused: the timer fires but no cycle runs.
	s.Pause()
	wait <- time.Now()
	select {
	case <-cycles:
		t.Fatal("cycle ran while paused")
	case <-time.After(100 * time.Millisecond):
	}
	if !s.Paused() {
		t.Fatal("expected paused flag set")
	}

	// Resume, then the next timer fire runs a cycle again.
	s.Resume()
	wait <- time.Now()
	waitForCycle(t, cycles)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit on context cancel")
	}
}
