package repository

import (
	"context"
	"sync"
	"time"

	"staybook/internal/models"
)

type cartEntry struct {
	lines     []models.OrderLine
	expiresAt time.Time
}

type MemoryCartRepository struct {
	carts sync.Map
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryCartRepository) GetLines(ctx context.Context, sessionID string) ([]models.OrderLine, error) {
	val, ok := r.carts.Load(sessionID)
	if !ok {
		return nil, nil
	}
	entry := val.(*cartEntry)
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		r.carts.Delete(sessionID)
		return nil, nil
	}
	out := make([]models.OrderLine, len(entry.lines))
	copy(out, entry.lines)
	return out, nil
}

func (r *MemoryCartRepository) SaveLines(ctx context.Context, sessionID string, lines []models.OrderLine) error {
	stored := make([]models.OrderLine, len(lines))
	copy(stored, lines)
	r.carts.Store(sessionID, &cartEntry{lines: stored, expiresAt: r.now().Add(r.ttl)})
	return nil
}

func (r *MemoryCartRepository) ClearLines(ctx context.Context, sessionID string) error {
	r.carts.Delete(sessionID)
	return nil
}
