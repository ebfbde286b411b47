package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/njprem/ShipRequest_BackEnd/internal/repository/ports"
)

const uniqueViolationCode = "23505"

// translateError maps driver errors onto the store sentinels in ports.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrNotFound
	}
	if field, ok := uniqueViolationField(err); ok {
		return &ports.ConflictError{Field: field, Err: err}
	}
	return err
}

func uniqueViolationField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fieldFromConstraint(pgErr.ConstraintName), true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return fieldFromConstraint(pqErr.Constraint), true
	}
	// sqlite3 reports "UNIQUE constraint failed: users.email".
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return fieldFromConstraint(msg), true
	}
	return "", false
}

func fieldFromConstraint(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "username"):
		return "username"
	case strings.Contains(name, "email"):
		return "email"
	default:
		return ""
	}
}
