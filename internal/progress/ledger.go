// Package progress holds the in-memory XP ledger and daily streak tracker.
package progress

import (
	"errors"
	"sync"

	"lingopath-backend/internal/models"
)

// XPPerLevel is how many experience points separate consecutive levels.
// Level is always derived: floor(xp/100) + 1, so xp 0-99 is level 1.
const XPPerLevel = 100

// XPPerCorrectAnswer is the award for a correctly solved exercise.
const XPPerCorrectAnswer = 20

// ErrNonPositiveAmount rejects XP awards of zero or less
var ErrNonPositiveAmount = errors.New("xp amount must be positive")

type progressRecord struct {
	xp    int
	level int
}

// Ledger accumulates experience points per user and derives levels.
// All methods are safe for concurrent use; the read-modify-write in AddXP
// is serialized so simultaneous awards for one user never lose an update.
type Ledger struct {
	mu      sync.Mutex
	records map[int64]*progressRecord
}

// NewLedger creates an empty XP ledger
func NewLedger() *Ledger {
	return &Ledger{records: make(map[int64]*progressRecord)}
}

// Init seeds a fresh record at (0 xp, level 1). Existing records are left
// untouched, so calling it again for a known user is harmless.
func (l *Ledger) Init(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.getOrCreate(userID)
}

// AddXP awards experience points and reports the resulting level, flagging
// a level-up transition. Non-positive amounts are a caller error.
func (l *Ledger) AddXP(userID int64, amount int) (models.XPResult, error) {
	if amount <= 0 {
		return models.XPResult{}, ErrNonPositiveAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.getOrCreate(userID)
	rec.xp += amount
	newLevel := rec.xp/XPPerLevel + 1
	leveledUp := newLevel > rec.level
	rec.level = newLevel

	return models.XPResult{XP: rec.xp, Level: rec.level, LeveledUp: leveledUp}, nil
}

// GetXP returns the user's current XP and level, creating the record at
// (0, 1) on first read.
func (l *Ledger) GetXP(userID int64) (xp, level int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.getOrCreate(userID)
	return rec.xp, rec.level
}

// getOrCreate must be called with l.mu held
func (l *Ledger) getOrCreate(userID int64) *progressRecord {
	rec, exists := l.records[userID]
	if !exists {
		rec = &progressRecord{xp: 0, level: 1}
		l.records[userID] = rec
	}
	return rec
}
