package strategy

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pfplabs/croaker/utils"
)

// Scheduler states.
type State string

const (
	StateIdle        State = "idle"
	StateScheduled   State = "scheduled"
	StatePosting     State = "posting"
	StateCoolingDown State = "cooling_down"
	StatePaused      State = "paused"
)

// PostCounter counts successful publishes inside a trailing window.
type PostCounter interface {
	CountPostedSince(t time.Time) (int, error)
}

// SchedulerConfig bounds the posting cadence.
type SchedulerConfig struct {
	BaseInterval time.Duration
	MinInterval  time.Duration
	MaxInterval  time.Duration
	MaxPerHour   int
	MaxPerDay    int
	// Blackout window in local hours [QuietStart, QuietEnd); -1 disables.
	QuietStart int
	QuietEnd   int
}

// Scheduler owns the posting cadence: jittered delays between cycles, the
// rate gate, and the pause/resume state machine. Posting is non-reentrant;
// the loop runs one cycle at a time.
type Scheduler struct {
	cfg    SchedulerConfig
	counts PostCounter

	mu      sync.Mutex
	state   State
	paused  bool
	nextRun time.Time
	rng     *rand.Rand

	now     func() time.Time
	waitFn  func(d time.Duration) <-chan time.Time
	trigger chan struct{}
	resume  chan struct{}
}

// NewScheduler builds an idle scheduler. rng drives the jitter; now and the
// timer function are injectable for tests.
func NewScheduler(cfg SchedulerConfig, counts PostCounter, rng *rand.Rand) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		counts:  counts,
		state:   StateIdle,
		rng:     rng,
		now:     time.Now,
		waitFn:  func(d time.Duration) <-chan time.Time { return time.After(d) },
		trigger: make(chan struct{}, 1),
		resume:  make(chan struct{}, 1),
	}
}

// CanPostNow evaluates the rate gate: hourly cap, then daily cap, then the
// blackout window. The first failing check short-circuits with its reason.
func (s *Scheduler) CanPostNow() (bool, string) {
	now := s.now()

	hourly, err := s.counts.CountPostedSince(now.Add(-time.Hour))
	if err != nil {
		return false, fmt.Sprintf("rate window unavailable: %v", err)
	}
	if hourly >= s.cfg.MaxPerHour {
		return false, fmt.Sprintf("hourly cap reached: %d/%d", hourly, s.cfg.MaxPerHour)
	}

	daily, err := s.counts.CountPostedSince(now.Add(-24 * time.Hour))
	if err != nil {
		return false, fmt.Sprintf("rate window unavailable: %v", err)
	}
	if daily >= s.cfg.MaxPerDay {
		return false, fmt.Sprintf("daily cap reached: %d/%d", daily, s.cfg.MaxPerDay)
	}

	if s.cfg.QuietStart >= 0 && s.cfg.QuietEnd >= 0 && inQuietHours(now.Hour(), s.cfg.QuietStart, s.cfg.QuietEnd) {
		return false, fmt.Sprintf("inside quiet hours %02d:00-%02d:00", s.cfg.QuietStart, s.cfg.QuietEnd)
	}

	return true, ""
}

// inQuietHours handles windows that wrap midnight, e.g. 23..6.
func inQuietHours(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// NextDelay returns the base interval with ±25% uniform jitter, clamped into
// [MinInterval, MaxInterval].
func (s *Scheduler) NextDelay() time.Duration {
	s.mu.Lock()
	jitter := (s.rng.Float64() - 0.5) * 0.5 // uniform in [-0.25, +0.25)
	s.mu.Unlock()

	d := time.Duration(float64(s.cfg.BaseInterval) * (1 + jitter))
	if d < s.cfg.MinInterval {
		d = s.cfg.MinInterval
	}
	if d > s.cfg.MaxInterval {
		d = s.cfg.MaxInterval
	}
	return d
}

// Run drives the posting loop until the context is canceled. Each round waits
// the jittered delay (or an operator trigger), then runs one cycle unless
// paused. Pause takes effect at the cycle boundary, never mid-cycle.
func (s *Scheduler) Run(ctx context.Context, cycle func(ctx context.Context)) {
	for {
		delay := s.NextDelay()

		s.mu.Lock()
		if s.paused {
			s.state = StatePaused
		} else {
			s.state = StateScheduled
		}
		s.nextRun = s.now().Add(delay)
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			s.setState(StateIdle)
			return
		case <-s.waitFn(delay):
		case <-s.trigger:
			utils.Sugar.Infow("cycle triggered by operator")
		case <-s.resume:
			continue // recompute the schedule with the pause flag cleared
		}

		s.mu.Lock()
		if s.paused {
			s.state = StatePaused
			s.mu.Unlock()
			continue
		}
		s.state = StatePosting
		s.mu.Unlock()

		cycle(ctx)

		s.setState(StateCoolingDown)
	}
}

// Trigger requests an immediate cycle. The request is dropped when one is
// already pending.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Pause stops future cycles at the next boundary.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	if s.state == StateScheduled || s.state == StateCoolingDown {
		s.state = StatePaused
	}
}

// Resume re-enables the loop.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	if s.state == StatePaused {
		s.state = StateScheduled
	}
	s.mu.Unlock()
	select {
	case s.resume <- struct{}{}:
	default:
	}
}

// Paused reports the operator pause flag.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Status is the scheduler snapshot exposed by the ops API.
type Status struct {
	State          State     `json:"state"`
	Paused         bool      `json:"paused"`
	NextRun        time.Time `json:"next_run"`
	PostedLastHour int       `json:"posted_last_hour"`
	PostedLastDay  int       `json:"posted_last_day"`
	GateOpen       bool      `json:"gate_open"`
	GateReason     string    `json:"gate_reason,omitempty"`
}

// Snapshot assembles the current status.
func (s *Scheduler) Snapshot() Status {
	s.mu.Lock()
	st := Status{State: s.state, Paused: s.paused, NextRun: s.nextRun}
	s.mu.Unlock()

	now := s.now()
	if hourly, err := s.counts.CountPostedSince(now.Add(-time.Hour)); err == nil {
		st.PostedLastHour = hourly
	}
	if daily, err := s.counts.CountPostedSince(now.Add(-24 * time.Hour)); err == nil {
		st.PostedLastDay = daily
	}
	st.GateOpen, st.GateReason = s.CanPostNow()
	return st
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused && (state == StateScheduled || state == StateCoolingDown) {
		s.state = StatePaused
		return
	}
	s.state = state
}
