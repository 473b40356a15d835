package db

import (
	"context"
	"fmt"
	"net/http"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/opencrowd/crowdfund-backend/internal/db/migrations"
)

// Migrate applies the embedded migrations to the given pool. count limits the
// number of migrations applied; 0 means no limit.
func Migrate(ctx context.Context, pool ConnectionPool, direction migrate.MigrationDirection, count int) (int, error) {
	m := migrate.HttpFileSystemMigrationSource{FileSystem: http.FS(migrations.FS)}

	appliedMigrationsCount, err := migrate.ExecMax(pool.SqlxDB().DB, "sqlite3", m, direction, count)
	if err != nil {
		return appliedMigrationsCount, fmt.Errorf("applying migrations: %w", err)
	}
	return appliedMigrationsCount, nil
}
