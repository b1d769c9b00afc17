package progress

import (
	"sync"
	"time"
)

type streakRecord struct {
	count      int
	lastUpdate time.Time // truncated to the local calendar day
}

// StreakTracker counts consecutive calendar days with at least one
// recorded engagement per user. Day boundaries follow the server's local
// calendar; time-of-day is discarded on every comparison.
type StreakTracker struct {
	mu      sync.Mutex
	records map[int64]*streakRecord

	now func() time.Time
}

// NewStreakTracker creates an empty streak tracker
func NewStreakTracker() *StreakTracker {
	return &StreakTracker{
		records: make(map[int64]*streakRecord),
		now:     time.Now,
	}
}

// Init seeds a fresh record at count 0 with yesterday's date, so the
// user's first engagement today advances the streak to 1. Existing
// records are left untouched.
func (t *StreakTracker) Init(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.records[userID]; exists {
		return
	}
	today := dateOf(t.now())
	t.records[userID] = &streakRecord{count: 0, lastUpdate: today.AddDate(0, 0, -1)}
}

// RegisterEngagement records today's activity and returns the streak
// count. Idempotent within a calendar day: a second call on the same day
// returns the same count. A gap of two days or more, or a stored day in
// the future from clock skew, resets the streak to 1.
func (t *StreakTracker) RegisterEngagement(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := dateOf(t.now())
	rec, exists := t.records[userID]
	if !exists {
		t.records[userID] = &streakRecord{count: 1, lastUpdate: today}
		return 1
	}

	switch {
	case rec.lastUpdate.Equal(today):
		return rec.count
	case rec.lastUpdate.Equal(today.AddDate(0, 0, -1)):
		rec.count++
		rec.lastUpdate = today
		return rec.count
	default:
		rec.count = 1
		rec.lastUpdate = today
		return 1
	}
}

// GetStreak reports the current streak without mutating stored state.
// Once the stored day falls strictly before yesterday the streak has
// lapsed and reads as 0, even though the record still holds the old count
// until the next engagement formally resets it.
func (t *StreakTracker) GetStreak(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[userID]
	if !exists {
		return 0
	}

	today := dateOf(t.now())
	if rec.lastUpdate.Before(today.AddDate(0, 0, -1)) {
		return 0
	}
	return rec.count
}

// dateOf discards the time-of-day, keeping the local calendar date.
// Comparing whole dates instead of hour deltas keeps DST transitions from
// shifting the day boundary.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
