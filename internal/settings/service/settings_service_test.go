package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/internal/settings/domain"
	"github.com/GoSim-25-26J-441/projectdash/internal/settings/repository"
)

type brokenRepo struct{ err error }

func (b brokenRepo) Get(context.Context, string) (*domain.Settings, error) { return nil, b.err }
func (b brokenRepo) Upsert(context.Context, *domain.Settings) error        { return b.err }

func strPtr(s string) *string { return &s }

func TestSettingsService_GetDefaults(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewSettingsService(repo, zap.NewNop())
	ctx := context.Background()

	s, err := svc.Get(ctx, "u1", "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeSystem, s.Theme)
	assert.Equal(t, "u1@example.com", s.Email)
	assert.Empty(t, s.Preferences)

	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "reading defaults must not write a row")
}

func TestSettingsService_Update(t *testing.T) {
	svc := NewSettingsService(repository.NewMemoryRepository(), zap.NewNop())
	ctx := context.Background()

	s, err := svc.Update(ctx, "u1", "u1@example.com", &domain.UpdateSettingsRequest{
		Theme:       strPtr(domain.ThemeDark),
		DisplayName: strPtr("  Ada  "),
		Preferences: map[string]interface{}{"sidebar": "collapsed", "density": "compact"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, s.Theme)
	require.NotNil(t, s.DisplayName)
	assert.Equal(t, "Ada", *s.DisplayName)
	assert.False(t, s.UpdatedAt.IsZero())

	t.Run("preferences merge key by key", func(t *testing.T) {
		s, err := svc.Update(ctx, "u1", "", &domain.UpdateSettingsRequest{
			Preferences: map[string]interface{}{"density": "comfortable"},
		})
		require.NoError(t, err)
		assert.Equal(t, "collapsed", s.Preferences["sidebar"])
		assert.Equal(t, "comfortable", s.Preferences["density"])
		assert.Equal(t, domain.ThemeDark, s.Theme)
		assert.Equal(t, "u1@example.com", s.Email)
	})

	t.Run("blank display name clears it", func(t *testing.T) {
		s, err := svc.Update(ctx, "u1", "", &domain.UpdateSettingsRequest{DisplayName: strPtr(" ")})
		require.NoError(t, err)
		assert.Nil(t, s.DisplayName)
	})

	t.Run("invalid theme", func(t *testing.T) {
		_, err := svc.Update(ctx, "u1", "", &domain.UpdateSettingsRequest{Theme: strPtr("neon")})
		assert.ErrorIs(t, err, domain.ErrInvalidTheme)

		s, err := svc.Get(ctx, "u1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.ThemeDark, s.Theme)
	})
}

func TestSettingsService_StoreErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewSettingsService(brokenRepo{err: boom}, nil)

	_, err := svc.Get(context.Background(), "u1", "")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Update(context.Background(), "u1", "", &domain.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, boom)
}
