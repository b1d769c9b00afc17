package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTracker(t *testing.T) (*StreakTracker, *time.Time) {
	t.Helper()
	current := time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)
	tracker := NewStreakTracker()
	tracker.now = func() time.Time { return current }
	return tracker, &current
}

func TestFirstEngagementStartsAtOne(t *testing.T) {
	tracker, _ := newTestTracker(t)

	assert.Equal(t, 1, tracker.RegisterEngagement(1))
}

func TestInitSeedsYesterdaySoFirstDayCounts(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.Init(1)
	assert.Equal(t, 0, tracker.GetStreak(1))

	// The very first engagement advances to 1, not 0
	assert.Equal(t, 1, tracker.RegisterEngagement(1))

	// Init on an existing record is a no-op
	tracker.Init(1)
	assert.Equal(t, 1, tracker.GetStreak(1))
}

func TestSameDayIsIdempotent(t *testing.T) {
	tracker, clock := newTestTracker(t)

	assert.Equal(t, 1, tracker.RegisterEngagement(1))
	assert.Equal(t, 1, tracker.RegisterEngagement(1))

	// Even late the same day
	*clock = clock.Add(14 * time.Hour)
	assert.Equal(t, 1, tracker.RegisterEngagement(1))
}

func TestConsecutiveDaysIncrement(t *testing.T) {
	tracker, clock := newTestTracker(t)

	assert.Equal(t, 1, tracker.RegisterEngagement(1))

	*clock = clock.AddDate(0, 0, 1)
	assert.Equal(t, 2, tracker.RegisterEngagement(1))

	*clock = clock.AddDate(0, 0, 1)
	assert.Equal(t, 3, tracker.RegisterEngagement(1))
}

func TestGapResetsToOne(t *testing.T) {
	tracker, clock := newTestTracker(t)

	tracker.RegisterEngagement(1)
	*clock = clock.AddDate(0, 0, 1)
	assert.Equal(t, 2, tracker.RegisterEngagement(1))

	// Skip a day: reset to 1, not 0
	*clock = clock.AddDate(0, 0, 2)
	assert.Equal(t, 1, tracker.RegisterEngagement(1))
}

func TestFutureLastUpdateTreatedAsGap(t *testing.T) {
	tracker, clock := newTestTracker(t)

	tracker.RegisterEngagement(1)

	// Clock skew: the wall clock goes backwards past a day boundary
	*clock = clock.AddDate(0, 0, -2)
	assert.Equal(t, 1, tracker.RegisterEngagement(1))
}

func TestGetStreakReportsLapseWithoutMutation(t *testing.T) {
	tracker, clock := newTestTracker(t)

	tracker.RegisterEngagement(1)
	*clock = clock.AddDate(0, 0, 1)
	assert.Equal(t, 2, tracker.RegisterEngagement(1))

	// Yesterday's engagement still counts today
	*clock = clock.AddDate(0, 0, 1)
	assert.Equal(t, 2, tracker.GetStreak(1))

	// Two days later the streak has lapsed: reads 0
	*clock = clock.AddDate(0, 0, 1)
	assert.Equal(t, 0, tracker.GetStreak(1))

	// The read did not mutate stored state: rewinding to the day after
	// the last engagement still shows the old count
	*clock = clock.AddDate(0, 0, -1)
	assert.Equal(t, 2, tracker.GetStreak(1))
}

func TestGetStreakUnknownUser(t *testing.T) {
	tracker, _ := newTestTracker(t)
	assert.Equal(t, 0, tracker.GetStreak(99))
}

func TestDayBoundaryNotTimeOfDay(t *testing.T) {
	tracker, clock := newTestTracker(t)

	// 23:50 on day D
	*clock = time.Date(2026, 3, 10, 23, 50, 0, 0, time.Local)
	assert.Equal(t, 1, tracker.RegisterEngagement(1))

	// 00:10 on day D+1: only 20 minutes later, but a new calendar day
	*clock = time.Date(2026, 3, 11, 0, 10, 0, 0, time.Local)
	assert.Equal(t, 2, tracker.RegisterEngagement(1))
}

func TestStreakUsersAreIndependent(t *testing.T) {
	tracker, clock := newTestTracker(t)

	tracker.RegisterEngagement(1)
	*clock = clock.AddDate(0, 0, 1)
	tracker.RegisterEngagement(1)

	assert.Equal(t, 1, tracker.RegisterEngagement(2))
	assert.Equal(t, 2, tracker.GetStreak(1))
}
