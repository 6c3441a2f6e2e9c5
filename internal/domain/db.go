package domain

import (
	"context"
	"fmt"
)

// Database is the lifecycle surface of the CampusConnect store. main prepares
// it at startup and /healthz pings it; repositories are reached through the
// concrete implementation.
type Database interface {
	// Migrate brings the schema up to date. It is safe to call on every start.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// PrepareDatabase checks that db is reachable and applies pending migrations.
func PrepareDatabase(ctx context.Context, db Database) error {
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return db.Migrate(ctx)
}
