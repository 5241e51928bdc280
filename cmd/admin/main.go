// Command admin changes user roles out of band. Roles are never changed
// through the API.
package main

import (
	"fmt"
	"os"

	"dealboard/internal/cache"
	"dealboard/internal/config"
	"dealboard/internal/database"
	"dealboard/internal/repository"
)

func main() {
	connect := func() (repository.UserRepository, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		// Invalidate the cached profile so the new role applies on the next request.
		cache.InitRedis(cfg.RedisURL)
		return repository.NewUserRepository(db), nil
	}

	if err := newRootCmd(connect).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
