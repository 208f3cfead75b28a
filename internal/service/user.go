package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"

	"latrones/internal/storage"
)

// User represents a registered user account
type User struct {
	UserID    string
	Username  string
	Email     string
	Temporary bool
	CreatedAt time.Time
}

func userFromRecord(record *storage.UserRecord) *User {
	return &User{
		UserID:    record.UserID,
		Username:  record.Username,
		Email:     record.Email,
		Temporary: record.AccountType == "temp",
		CreatedAt: record.CreatedAt,
	}
}

// CreateUser registers an account. Temporary accounts expire after TempUserTTL.
func (s *Service) CreateUser(username, email, password string, temporary bool) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AccountType:  "permanent",
		CreatedAt:    now,
	}
	if temporary {
		expires := now.Add(TempUserTTL)
		record.AccountType = "temp"
		record.ExpiresAt = &expires
	}

	if err := s.store.CreateUser(record); err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return userFromRecord(&record), nil
}

// AuthenticateUser verifies credentials and records the login time
func (s *Service) AuthenticateUser(username, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	record, err := s.store.GetUserByUsername(username)
	if err != nil {
		// Hash anyway so unknown usernames take as long as wrong passwords
		auth.HashPassword(password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.UpdateUserLastLoginSync(record.UserID, time.Now().UTC()); err != nil {
		return nil, err
	}

	return userFromRecord(record), nil
}

// GetUserByID retrieves user information by user ID
func (s *Service) GetUserByID(userID string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return userFromRecord(record), nil
}

// GenerateUserToken creates a JWT token for the specified user
func (s *Service) GenerateUserToken(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	claims := map[string]any{
		"username": user.Username,
	}

	return auth.GenerateHS256Token(s.jwtSecret, userID, claims, TokenTTL)
}

// ValidateToken verifies JWT token and returns user ID with claims
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	return auth.ValidateHS256Token(s.jwtSecret, token)
}
