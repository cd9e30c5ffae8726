package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Migration sets, one per service schema.
const (
	MigrationsDepartment = "department"
	MigrationsEmployee   = "employee"
	MigrationsInventory  = "inventory"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations executes the SQL files of one migration set in name order.
// Every file is written to be safe to re-run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, set string, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	filenames, err := MigrationFiles(set)
	if err != nil {
		return err
	}

	for _, name := range filenames {
		content, err := migrationsFS.ReadFile(path.Join("migrations", set, name))
		if err != nil {
			return fmt.Errorf("read migration %s/%s: %w", set, name, err)
		}

		logger.Info("applying migration", zap.String("set", set), zap.String("file", name))
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s/%s: %w", set, name, err)
		}
	}

	logger.Info("migrations applied", zap.String("set", set), zap.Int("count", len(filenames)))
	return nil
}

// MigrationFiles lists the .sql files of a set, sorted.
func MigrationFiles(set string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, path.Join("migrations", set))
	if err != nil {
		return nil, fmt.Errorf("read migrations %s: %w", set, err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames, nil
}
