package strategy

import (
	"fmt"
	"sync"
	"time"
)

// ReplyLimiter caps the combined number of replies per hour across mention
// handling and comment handling, so conversational traffic never dwarfs the
// bot's own posting cadence.
type ReplyLimiter struct {
	mu     sync.Mutex
	max    int
	now    func() time.Time
	posted []time.Time
}

// NewReplyLimiter builds the limiter.
func NewReplyLimiter(maxPerHour int) *ReplyLimiter {
	if maxPerHour <= 0 {
		maxPerHour = 5
	}
	return &ReplyLimiter{max: maxPerHour, now: time.Now}
}

// CanReply reports whether another reply fits inside the hourly cap.
func (l *ReplyLimiter) CanReply() (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	if len(l.posted) >= l.max {
		return false, fmt.Sprintf("reply cap reached (%d/%d in the last hour)", len(l.posted), l.max)
	}
	return true, ""
}

// RecordReply counts a posted reply against the current hour.
func (l *ReplyLimiter) RecordReply() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posted = append(l.posted, l.now())
}

// Remaining returns how many replies are still available this hour.
func (l *ReplyLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	if n := l.max - len(l.posted); n > 0 {
		return n
	}
	return 0
}

// prune drops timestamps older than an hour. Caller holds the lock.
func (l *ReplyLimiter) prune() {
	cutoff := l.now().Add(-time.Hour)
	kept := l.posted[:0]
	for _, ts := range l.posted {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.posted = kept
}
