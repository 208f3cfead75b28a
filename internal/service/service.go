package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"latrones/internal/game"
	"latrones/internal/storage"
)

const (
	MaxGames           = 1000
	TempUserTTL        = 24 * time.Hour
	TokenTTL           = 7 * 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameOver           = errors.New("game is over")
	ErrIllegalAction      = errors.New("action has no effect")
	ErrTooManyGames       = errors.New("game limit reached")
	ErrStorageDisabled    = errors.New("storage disabled")
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service coordinates game state, user management, and storage
type Service struct {
	games     map[string]*game.Game
	mu        sync.RWMutex
	store     *storage.Store // nil when persistence is disabled
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		games:     make(map[string]*game.Game),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(WaitTimeout),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(ctx context.Context, gameID string, actionCount int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, actionCount)
}

// Shutdown releases waiting clients, drops in-memory games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errs
}

// RunCleanupJob periodically removes expired temporary users
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *Service) cleanupExpired() {
	if s.store == nil {
		return
	}

	deleted, err := s.store.DeleteExpiredTempUsers()
	if err != nil {
		log.Error().Err(err).Msg("cleanup: failed to delete expired users")
		return
	}
	if deleted > 0 {
		log.Info().Int64("count", deleted).Msg("cleanup: deleted expired temp users")
	}
}
