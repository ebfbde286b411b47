// Package sqlite opens a local SQLite database for development runs. The SQL
// repositories in package postgres work unchanged on top of it.
package sqlite

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const Driver = "sqlite3"

// New opens path with foreign keys enforced. SQLite allows a single writer, so
// the pool is capped at one connection.
func New(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(Driver, "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
