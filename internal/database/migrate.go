package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/jmoiron/sqlx"
)

// Migrate executes every *.sql file under the migrations directory of migrations in name order.
// Each file runs as one multi-statement exec and must be safe to run again.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) ([]string, error) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob() > %w", err)
	}

	applied := make([]string, 0, len(files))
	for _, file := range files {
		contents, err := fs.ReadFile(migrations, file)
		if err != nil {
			return applied, fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return applied, fmt.Errorf("db.ExecContext(%s) > %w", file, err)
		}
		slog.Default().Debug("applied migration", "file", file)
		applied = append(applied, path.Base(file))
	}
	return applied, nil
}
