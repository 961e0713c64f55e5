package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-service/internal/config"
)

func TestOpenSQLite(t *testing.T) {
	cfg := config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "app.sqlite"),
	}

	db, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM `book`").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), "postgres", "x", 0)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:app.sqlite?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqliteDSN("app.sqlite"))
	assert.Equal(t, "file::memory:", sqliteDSN("file::memory:"))
}
