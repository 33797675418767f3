package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"staybook/internal/domain"
	"staybook/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverCartRepository serves carts from primary (Redis) and switches to
// fallback (memory) after the first primary error, probing the primary
// again once recoveryInterval has passed.
type FailoverCartRepository struct {
	primary  domain.CartRepository
	fallback domain.CartRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverCartRepository(primary, fallback domain.CartRepository, logger *zerolog.Logger) *FailoverCartRepository {
	return &FailoverCartRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverCartRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary cart repository failed, falling back to memory")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

// usePrimary reports whether the primary should be tried for this call.
func (r *FailoverCartRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) > recoveryInterval {
		r.lastCheck = time.Now()
		return true
	}
	return false
}

func (r *FailoverCartRepository) GetLines(ctx context.Context, sessionID string) ([]models.OrderLine, error) {
	if r.usePrimary() {
		lines, err := r.primary.GetLines(ctx, sessionID)
		if err == nil {
			r.recovered()
			return lines, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetLines(ctx, sessionID)
}

func (r *FailoverCartRepository) SaveLines(ctx context.Context, sessionID string, lines []models.OrderLine) error {
	if r.usePrimary() {
		err := r.primary.SaveLines(ctx, sessionID, lines)
		if err == nil {
			r.recovered()
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SaveLines(ctx, sessionID, lines)
}

func (r *FailoverCartRepository) ClearLines(ctx context.Context, sessionID string) error {
	// Clear both so a cart saved during an outage cannot resurface.
	fallbackErr := r.fallback.ClearLines(ctx, sessionID)
	if r.usePrimary() {
		err := r.primary.ClearLines(ctx, sessionID)
		if err == nil {
			r.recovered()
			return fallbackErr
		}
		r.markDown(err)
	}

	return fallbackErr
}

func (r *FailoverCartRepository) recovered() {
	if r.isDown.CompareAndSwap(true, false) {
		r.logger.Info().Msg("Primary cart repository recovered")
	}
}
