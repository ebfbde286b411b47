// Package migrations bootstraps the schema from embedded SQL files using goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Dialect returns the goose dialect and migration directory for a driver name.
func Dialect(driver string) (dialect, dir string, err error) {
	switch driver {
	case "pgx", "postgres", "":
		return "postgres", "postgres", nil
	case "sqlite3":
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}

// Up applies all pending migrations for driver.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	dialect, dir, err := Dialect(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
