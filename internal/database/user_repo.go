package database

import (
	"database/sql"
	"errors"
	"time"

	"lingopath-backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepo handles user database operations
type UserRepo struct{}

// NewUserRepo creates a new user repository
func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// Create creates a new user
func (r *UserRepo) Create(user *models.User) error {
	result, err := DB.Exec(`
		INSERT INTO users (email, name, password_hash, role)
		VALUES (?, ?, ?, ?)
	`, user.Email, user.Name, user.PasswordHash, user.Role)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepo) GetByID(id int64) (*models.User, error) {
	return r.getBy("id = ?", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email = ?", email)
}

func (r *UserRepo) getBy(where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	var name sql.NullString
	var lastLogin sql.NullTime

	err := DB.QueryRow(`
		SELECT id, email, name, password_hash, role, created_at, updated_at, last_login
		FROM users WHERE `+where,
		arg).Scan(
		&user.ID, &user.Email, &name, &user.PasswordHash, &user.Role,
		&user.CreatedAt, &user.UpdatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if name.Valid {
		user.Name = name.String
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}

	return user, nil
}

// UpdateLastLogin updates the user's last login timestamp
func (r *UserRepo) UpdateLastLogin(id int64) error {
	_, err := DB.Exec("UPDATE users SET last_login = ? WHERE id = ?", time.Now(), id)
	return err
}

// Count returns the total number of users
func (r *UserRepo) Count() (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
