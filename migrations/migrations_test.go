package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestAutoMigrateCreatesTables(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, AutoMigrate(ctx, "sqlite", 0, db))
	// idempotent on an existing database
	require.NoError(t, AutoMigrate(ctx, "sqlite", 0, db))

	for _, table := range []string{"book", "user"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}

func TestUniqueTitle(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, AutoMigrate(ctx, "sqlite", 0, db))

	_, err = db.ExecContext(ctx, "INSERT INTO `book` (title, author) VALUES (?, ?)", "Dune", "Herbert")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO `book` (title, author) VALUES (?, ?)", "Dune", "Someone")
	assert.Error(t, err)
}

func TestPrimaryKeyDialect(t *testing.T) {
	assert.Contains(t, primaryKey("mysql"), "AUTO_INCREMENT")
	assert.Contains(t, primaryKey("sqlite"), "AUTOINCREMENT")
}
