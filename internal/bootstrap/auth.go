package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/config"
	"github.com/GoSim-25-26J-441/projectdash/internal/auth"
)

// NewSessionResolver builds the resolver for the configured auth mode.
func NewSessionResolver(ctx context.Context, cfg *config.Config, log *zap.Logger) (auth.SessionResolver, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeFirebase:
		client, err := auth.InitializeFirebase(ctx, cfg.Auth.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseResolver(client), nil
	case config.AuthModeJWT:
		return auth.NewJWTResolver([]byte(cfg.Auth.JWTSecret), cfg.Auth.SessionCookie), nil
	case config.AuthModeHeader:
		log.Warn("trusting X-User-Id headers; development only")
		return auth.HeaderResolver{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}
