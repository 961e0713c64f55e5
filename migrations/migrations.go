package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// quote escapes a table name; "user" is reserved in MySQL.
func quote(table string) string {
	return "`" + table + "`"
}

// primaryKey returns the auto-assigned integer primary key column for driver.
func primaryKey(driver string) string {
	if driver == "mysql" {
		return "id INT AUTO_INCREMENT PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// AutoMigrateBooks creates the book table if it does not exist.
func AutoMigrateBooks(ctx context.Context, driver string, retries int, db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s,
			title VARCHAR(255) NOT NULL UNIQUE,
			author VARCHAR(255) NOT NULL,
			review VARCHAR(200)
		);
	`, quote("book"), primaryKey(driver))
	return execWithRetry(ctx, retries, db, query)
}

// AutoMigrateUsers creates the user table if it does not exist.
func AutoMigrateUsers(ctx context.Context, driver string, retries int, db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s,
			username VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE
		);
	`, quote("user"), primaryKey(driver))
	return execWithRetry(ctx, retries, db, query)
}

// AutoMigrate creates every table the service needs.
func AutoMigrate(ctx context.Context, driver string, retries int, db *sql.DB) error {
	if err := AutoMigrateBooks(ctx, driver, retries, db); err != nil {
		return fmt.Errorf("migrate book table: %w", err)
	}
	if err := AutoMigrateUsers(ctx, driver, retries, db); err != nil {
		return fmt.Errorf("migrate user table: %w", err)
	}
	return nil
}

func execWithRetry(ctx context.Context, retries int, db *sql.DB, query string) error {
	_, err := db.ExecContext(ctx, query)
	for i := 0; err != nil && i < retries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
		_, err = db.ExecContext(ctx, query)
	}
	return err
}
