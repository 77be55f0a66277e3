package repository

import (
	"context"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/projectdash/internal/settings/domain"
)

// MemoryRepository keeps settings in process. It backs the settings API when
// no SQL database is configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]domain.Settings
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows: make(map[string]domain.Settings),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.rows[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	s.Preferences = clonePreferences(s.Preferences)
	return &s, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	row := *s
	row.Preferences = clonePreferences(s.Preferences)
	row.CreatedAt = now
	if prev, ok := r.rows[s.UserID]; ok {
		row.CreatedAt = prev.CreatedAt
	}
	row.UpdatedAt = now
	r.rows[s.UserID] = row

	s.CreatedAt = row.CreatedAt
	s.UpdatedAt = row.UpdatedAt
	return nil
}
