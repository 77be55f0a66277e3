package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/config"
	"github.com/GoSim-25-26J-441/projectdash/internal/settings/repository"
	"github.com/GoSim-25-26J-441/projectdash/internal/storage/postgres"
)

// OpenSettingsRepo returns the SQL repository when a postgres DSN is
// configured and an in-memory one otherwise.
func OpenSettingsRepo(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, func(), error) {
	if cfg.DocStore.Driver != config.DriverPostgres || cfg.Database.DSN == "" {
		log.Warn("using in-memory settings repository")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, func() { _ = db.Close() }, nil
}
