package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// New opens a pooled connection using either the pgx stdlib driver or lib/pq.
func New(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverPgx
	}
	return sqlx.Connect(driver, dsn)
}
