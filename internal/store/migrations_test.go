package store

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func schemaVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow(`PRAGMA user_version`).Scan(&v))
	return v
}

func TestParseStepFilename(t *testing.T) {
	version, name, err := parseStepFilename("001_create_tasks.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, "create_tasks", name)

	for _, bad := range []string{"create.sql", "abc_create.sql", "000_zero.sql", "002_.sql"} {
		_, _, err := parseStepFilename(bad)
		assert.Error(t, err, bad)
	}
}

func TestMigrate_ShippedSchema(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, migrate(ctx, db, schemaMigrations()))
	require.NoError(t, migrate(ctx, db, schemaMigrations()))

	steps, err := readSchemaSteps(schemaMigrations())
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	assert.Equal(t, steps[len(steps)-1].version, schemaVersion(t, db))

	_, err = db.Exec(`INSERT INTO tasks (id, name, description, status, position) VALUES (1, 'A', '', 'todo', 1)`)
	assert.NoError(t, err)
}

func TestMigrate_AppliesOnlyNewSteps(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_create_tasks.sql": {Data: []byte(`CREATE TABLE tasks (id INTEGER PRIMARY KEY, status TEXT);`)},
	}
	require.NoError(t, migrate(ctx, db, fsys))
	assert.Equal(t, 1, schemaVersion(t, db))

	// Re-running step 1 would fail on CREATE TABLE; only step 2 may run.
	fsys["002_add_owner.sql"] = &fstest.MapFile{Data: []byte(`ALTER TABLE tasks ADD COLUMN owner TEXT;`)}
	fsys["README.md"] = &fstest.MapFile{Data: []byte(`ignored`)}
	require.NoError(t, migrate(ctx, db, fsys))
	assert.Equal(t, 2, schemaVersion(t, db))

	_, err := db.Exec(`INSERT INTO tasks (id, status, owner) VALUES (1, 'todo', 'me')`)
	assert.NoError(t, err)
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_create_tasks.sql": {Data: []byte(`CREATE TABLE tasks (id INTEGER PRIMARY KEY);`)},
		"002_broken.sql":       {Data: []byte(`CREATE TABLE tasks_archive (id INTEGER); NOT SQL;`)},
	}
	err := migrate(ctx, db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2_broken")

	assert.Equal(t, 1, schemaVersion(t, db))
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'tasks_archive'`).Scan(&n))
	assert.Zero(t, n)
}

func TestReadSchemaSteps_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_create_tasks.sql": {Data: []byte(`SELECT 1;`)},
		"1_again.sql":          {Data: []byte(`SELECT 1;`)},
	}
	_, err := readSchemaSteps(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share version 1")
}
