package repo

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations holds the bundled Postgres schema files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// RunMigrations executes every .sql file in fsys in lexical order. The
// statements are idempotent, so running them on each start is safe.
func RunMigrations(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}

	var sqlFiles []string
	for _, f := range files {
		if !f.IsDir() && path.Ext(f.Name()) == ".sql" {
			sqlFiles = append(sqlFiles, f.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", file, err)
		}
	}
	return nil
}
