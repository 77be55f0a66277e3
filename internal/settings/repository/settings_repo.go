package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/projectdash/internal/settings/domain"
)

const schema = `
create table if not exists user_settings (
  user_id text primary key,
  email text not null default '',
  display_name text,
  theme text not null default 'system' check (theme in ('light', 'dark', 'system')),
  preferences jsonb not null default '{}'::jsonb,
  created_at timestamptz not null default now(),
  updated_at timestamptz not null default now()
);`

// pq error code for a violated check constraint.
const checkViolation = "23514"

// PostgresRepository stores settings through database/sql and lib/pq.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the user_settings table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate user_settings: %w", err)
	}
	return nil
}

// Get retrieves the settings stored for userID
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	query := `
		SELECT user_id, email, display_name, theme, preferences, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var s domain.Settings
	var displayName sql.NullString
	var preferencesJSON []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID,
		&s.Email,
		&displayName,
		&s.Theme,
		&preferencesJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if displayName.Valid {
		s.DisplayName = &displayName.String
	}

	s.Preferences = make(map[string]interface{})
	if len(preferencesJSON) > 0 {
		if err := json.Unmarshal(preferencesJSON, &s.Preferences); err != nil || s.Preferences == nil {
			s.Preferences = make(map[string]interface{})
		}
	}

	return &s, nil
}

// Upsert creates or replaces the settings row for s.UserID.
func (r *PostgresRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	query := `
		INSERT INTO user_settings (user_id, email, display_name, theme, preferences)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    theme = EXCLUDED.theme,
		    preferences = EXCLUDED.preferences,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	preferencesJSON, err := json.Marshal(s.Preferences)
	if err != nil || s.Preferences == nil {
		preferencesJSON = []byte("{}")
	}

	var displayName sql.NullString
	if s.DisplayName != nil {
		displayName = sql.NullString{String: *s.DisplayName, Valid: true}
	}

	err = r.db.QueryRowContext(ctx, query,
		s.UserID,
		s.Email,
		displayName,
		s.Theme,
		preferencesJSON,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == checkViolation {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTheme, s.Theme)
	}
	return err
}
