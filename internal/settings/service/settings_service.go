package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/internal/logging"
	"github.com/GoSim-25-26J-441/projectdash/internal/settings/domain"
	"github.com/GoSim-25-26J-441/projectdash/internal/settings/repository"
)

type SettingsService struct {
	repo repository.Repository
	log  *zap.Logger
}

func NewSettingsService(repo repository.Repository, log *zap.Logger) *SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{repo: repo, log: log}
}

// Get returns the user's settings, or the defaults when none are stored.
// Nothing is written.
func (s *SettingsService) Get(ctx context.Context, userID, email string) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Defaults(userID, email), nil
	}
	if err != nil {
		logging.FromContext(ctx, s.log).Error("failed to load settings", zap.String("user.id", userID), zap.Error(err))
		return nil, err
	}
	return settings, nil
}

// Update applies req over the stored settings (or the defaults) and saves
// the result.
func (s *SettingsService) Update(ctx context.Context, userID, email string, req *domain.UpdateSettingsRequest) (*domain.Settings, error) {
	if req.Theme != nil && !domain.ValidTheme(*req.Theme) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTheme, *req.Theme)
	}

	settings, err := s.Get(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	if email != "" {
		settings.Email = email
	}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			settings.DisplayName = nil
		} else {
			settings.DisplayName = &name
		}
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	// Merge preferences if provided (don't overwrite existing ones)
	if len(req.Preferences) > 0 {
		if settings.Preferences == nil {
			settings.Preferences = make(map[string]interface{})
		}
		for k, v := range req.Preferences {
			settings.Preferences[k] = v
		}
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		if !errors.Is(err, domain.ErrInvalidTheme) {
			logging.FromContext(ctx, s.log).Error("failed to save settings", zap.String("user.id", userID), zap.Error(err))
		}
		return nil, err
	}

	logging.FromContext(ctx, s.log).Debug("settings updated",
		zap.String("user.id", userID),
		zap.String("theme", settings.Theme),
	)
	return settings, nil
}
