package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"lingopath-backend/internal/models"
)

// DefaultSessionTTL is how long a session stays valid after login.
// Validity is never extended by use.
const DefaultSessionTTL = 24 * time.Hour

// DefaultSweepInterval is how often expired sessions are swept in bulk.
const DefaultSweepInterval = time.Hour

// SessionStore holds active sessions in memory, keyed by opaque token.
// Sessions do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// NewSessionStore creates a session store with the given TTL.
// Pass 0 to use DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Create generates a new session token for the user and stores the session.
// The token carries 256 bits of CSPRNG entropy, hex-encoded.
func (s *SessionStore) Create(userID int64) (string, *models.Session, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	now := s.now()
	session := &models.Session{
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return token, session, nil
}

// Validate resolves a token to its owning user ID. An unknown or expired
// token returns ok=false; expired sessions are deleted on access.
func (s *SessionStore) Validate(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[token]
	if !exists {
		return 0, false
	}

	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		return 0, false
	}

	return session.UserID, true
}

// Delete removes a session. Unknown tokens are a no-op.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Count returns the number of stored sessions, expired ones included.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepExpired deletes every session past its expiry and returns how many
// were removed. Candidates are collected under a read lock so concurrent
// validation is not starved during the scan.
func (s *SessionStore) SweepExpired() int {
	now := s.now()

	s.mu.RLock()
	var expired []string
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			expired = append(expired, token)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	removed := 0
	s.mu.Lock()
	for _, token := range expired {
		session, exists := s.sessions[token]
		if exists && !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	s.mu.Unlock()

	return removed
}

// StartSweeper runs SweepExpired on the given interval until Stop is
// called. Sweeping only bounds memory; Validate already refuses expired
// sessions on its own.
func (s *SessionStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepExpired()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the background sweeper. Safe to call more than once.
func (s *SessionStore) Stop() {
	s.once.Do(func() { close(s.done) })
}
