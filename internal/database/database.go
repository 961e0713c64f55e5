// Package database opens the relational store behind the repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"bookshelf-service/internal/config"
	"bookshelf-service/migrations"
)

// retryDelay is the pause between connection attempts.
var retryDelay = 3 * time.Second

// sqliteDSN turns a plain file path into a modernc DSN with a busy timeout
// so concurrent writers wait instead of failing with SQLITE_BUSY.
func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return "file:" + dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Connect opens driver/dsn and pings it, retrying up to retries times.
func Connect(ctx context.Context, driver, dsn string, retries int) (*sql.DB, error) {
	switch driver {
	case config.DriverSQLite:
		dsn = sqliteDSN(dsn)
	case config.DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	var db *sql.DB
	var err error
	for i := 0; i <= retries; i++ {
		db, err = sql.Open(driver, dsn)
		if err == nil {
			err = db.PingContext(ctx)
			if err == nil {
				if driver == config.DriverSQLite {
					// one writer at a time; sqlite serializes them anyway
					db.SetMaxOpenConns(1)
				}
				log.Info().Str("driver", driver).Msg("Connected to database")
				return db, nil
			}
			db.Close()
		}
		log.Warn().Err(err).Int("attempt", i+1).Str("driver", driver).Msg("Failed to connect to database")

		if i == retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to %s database after %d attempts: %w", driver, retries+1, err)
}

// Open connects and creates the tables on first run.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := Connect(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBConnectRetries)
	if err != nil {
		return nil, err
	}

	if err := migrations.AutoMigrate(ctx, cfg.DBDriver, cfg.DBConnectRetries, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
