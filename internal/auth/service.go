package auth

import (
	"errors"

	"lingopath-backend/internal/database"
	"lingopath-backend/internal/models"
)

var (
	ErrNoToken        = errors.New("no session token provided")
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrUserNotFound   = errors.New("session user not found")

	ErrEmailTaken       = errors.New("user already exists")
	ErrUnknownEmail     = errors.New("no account with this email")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrEmptyCredentials = errors.New("email and password are required")
)

// UserStore is the user-lookup collaborator. GetByID and GetByEmail return
// an error satisfying errors.Is(err, database.ErrUserNotFound) when no
// such user exists.
type UserStore interface {
	Create(user *models.User) error
	GetByID(id int64) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateLastLogin(id int64) error
}

// Service handles registration, login and token validation
type Service struct {
	users    UserStore
	sessions *SessionStore
}

// NewService creates a new auth service
func NewService(users UserStore, sessions *SessionStore) *Service {
	return &Service{users: users, sessions: sessions}
}

// Sessions exposes the underlying session store
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// Register creates a learner account and an initial session
func (s *Service) Register(email, password, name string) (*models.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleLearner,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// Login authenticates an email/password pair and creates a session
func (s *Service) Login(email, password string) (*models.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrWrongPassword
	}

	resp, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	s.users.UpdateLastLogin(user.ID)

	return resp, nil
}

func (s *Service) issueSession(user *models.User) (*models.LoginResponse, error) {
	token, session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deletes the session for a token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}

// Authenticate resolves a bearer token to its user record. The three
// failure modes stay distinguishable for logging and tests; the HTTP
// layer collapses them all to a single unauthorized response so the
// error body leaks nothing about why a token was refused.
func (s *Service) Authenticate(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	userID, ok := s.sessions.Validate(token)
	if !ok {
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			// Valid session pointing at a deleted user: data
			// inconsistency, not a bad credential.
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
