package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
)

// ErrUserNotFound is returned by the user lookups.
var ErrUserNotFound = fmt.Errorf("user %w", common.ErrNotFound)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db       *sql.DB
	hashCost int
	now      func() time.Time
}

// NewUserService creates a new UserService. hashCost is the bcrypt work factor.
func NewUserService(db *sql.DB, hashCost int) *UserService {
	return &UserService{db: db, hashCost: hashCost, now: time.Now}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
// Emails match exactly as stored.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	return scanUser(row)
}

// Register creates a new user, hashing their password. An existing account
// with the same email yields a conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	_, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, common.Conflict(MsgDuplicateEmail)
	case !errors.Is(err, ErrUserNotFound):
		return models.User{}, err
	}

	hashedPassword, err := auth.HashPassword(password, s.hashCost)
	if err != nil {
		return models.User{}, err
	}

	now := s.now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, common.Conflict(MsgDuplicateEmail)
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. Failures are *AuthError.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, &AuthError{Kind: AuthUserNotFound}
		}
		return models.User{}, &AuthError{Kind: AuthServerError, Err: err}
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return models.User{}, &AuthError{Kind: AuthInvalidPassword}
		}
		return models.User{}, &AuthError{Kind: AuthServerError, Err: err}
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
