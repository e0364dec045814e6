package session

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/database"
)

// OpenStore builds the store selected by SESSION_STORE.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory, "":
		return NewMemoryStore(), nil
	case config.SessionStoreRedis:
		return NewRedisStore(ctx, cfg.RedisURL)
	case config.SessionStorePostgres:
		return OpenSQLStore(ctx, database.DialectPostgres, cfg.DatabaseURL, logger)
	case config.SessionStoreSQLite:
		return OpenSQLStore(ctx, database.DialectSQLite, cfg.DatabaseURL, logger)
	case config.SessionStoreLibSQL:
		return OpenSQLStore(ctx, database.DialectLibSQL, cfg.DatabaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
