package repository

import (
	"context"

	"github.com/GoSim-25-26J-441/projectdash/internal/settings/domain"
)

// Repository persists user settings.
type Repository interface {
	// Get returns domain.ErrUserNotFound when the user has no stored row.
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	// Upsert writes s and fills in its timestamps.
	Upsert(ctx context.Context, s *domain.Settings) error
}

func clonePreferences(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
