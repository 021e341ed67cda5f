package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// schemaMigrations returns the migrations shipped with the binary.
func schemaMigrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(fmt.Sprintf("store: embedded migrations: %v", err))
	}
	return sub
}

// schemaStep is one numbered SQL file, e.g. 001_create_tasks.sql.
type schemaStep struct {
	version int
	name    string
	sql     string
}

// migrate brings the tasks schema up to the newest step in fsys. The
// current schema version lives in SQLite's user_version header field, so
// no bookkeeping table is needed. Each step runs in its own transaction
// together with the version bump.
func migrate(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	steps, err := readSchemaSteps(fsys)
	if err != nil {
		return err
	}

	var current int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if err := applySchemaStep(ctx, db, step); err != nil {
			return err
		}
		current = step.version
	}
	return nil
}

func readSchemaSteps(fsys fs.FS) ([]schemaStep, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	steps := make([]schemaStep, 0, len(names))
	byVersion := make(map[int]string, len(names))
	for _, filename := range names {
		version, name, err := parseStepFilename(filename)
		if err != nil {
			return nil, err
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migrations %q and %q share version %d", prev, filename, version)
		}
		byVersion[version] = filename

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}
		steps = append(steps, schemaStep{version: version, name: name, sql: string(content)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

// parseStepFilename splits "<version>_<name>.sql". Versions start at 1.
func parseStepFilename(filename string) (int, string, error) {
	versionPart, name, ok := strings.Cut(strings.TrimSuffix(filename, ".sql"), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}
	version, err := strconv.Atoi(versionPart)
	if err != nil || version < 1 {
		return 0, "", fmt.Errorf("invalid migration version in %q", filename)
	}
	return version, name, nil
}

func applySchemaStep(ctx context.Context, db *sql.DB, step schemaStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d_%s: %w", step.version, step.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, step.sql); err != nil {
		return fmt.Errorf("failed to apply migration %d_%s: %w", step.version, step.name, err)
	}
	// PRAGMA does not accept bound parameters; version is a parsed int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, step.version)); err != nil {
		return fmt.Errorf("failed to record migration %d_%s: %w", step.version, step.name, err)
	}
	return tx.Commit()
}
