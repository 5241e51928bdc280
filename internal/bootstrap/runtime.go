// Package bootstrap wires the runtime dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dealboard/internal/cache"
	"dealboard/internal/config"
	"dealboard/internal/database"
	"dealboard/internal/middleware"
	"dealboard/internal/models"
	"dealboard/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis. Redis is optional; the
// returned client is nil when it is unreachable.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevAdmin(context.Background(), cfg, repository.NewUserRepository(db)); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return db, r, nil
}

// ensureDevAdmin promotes DEV_ADMIN_EMAIL to admin in development. Accounts
// only exist after a first login, so a missing user is logged and skipped.
func ensureDevAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	if cfg == nil || users == nil {
		return nil
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if !strings.EqualFold(cfg.Env, "development") || email == "" {
		return nil
	}

	user, err := users.GetByEmail(ctx, email)
	if models.IsCode(err, models.CodeNotFound) {
		middleware.Logger.Info("development admin has not signed in yet", slog.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	if err := users.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote development admin: %w", err)
	}
	middleware.Logger.Info("development admin ensured", slog.Uint64("user_id", uint64(user.ID)), slog.String("email", email))
	return nil
}
