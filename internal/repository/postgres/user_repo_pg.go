package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
)

const userColumns = `id, email, username, hashed_password, is_active, created_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, email, username, passwordHash string) (*domain.User, error) {
	query := r.db.Rebind(`
        INSERT INTO users (email, username, hashed_password, is_active)
        VALUES (?, ?, ?, TRUE)
        RETURNING ` + userColumns)

	row := r.db.QueryRowxContext(ctx, query, email, username, passwordHash)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := r.db.Rebind(`
        SELECT ` + userColumns + `
        FROM users
        WHERE email = ?`)

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := r.db.Rebind(`
        SELECT ` + userColumns + `
        FROM users
        WHERE id = ?`)

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}
