package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
)

const shipmentColumns = `id, product_name, weight, value, created_at, updated_at, user_id`

type ShipmentRepository struct {
	db *sqlx.DB
}

func NewShipmentRepo(db *sqlx.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) Create(ctx context.Context, shipment *domain.ShipmentRequest) (*domain.ShipmentRequest, error) {
	query := r.db.Rebind(`
        INSERT INTO ship_requests (product_name, weight, value, created_at, updated_at, user_id)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING ` + shipmentColumns)

	row := r.db.QueryRowxContext(ctx, query,
		shipment.ProductName, shipment.Weight, shipment.Value,
		shipment.CreatedAt, shipment.UpdatedAt, shipment.UserID)
	var created domain.ShipmentRequest
	if err := row.StructScan(&created); err != nil {
		return nil, translateError(err)
	}
	return &created, nil
}

func (r *ShipmentRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.ShipmentRequest, error) {
	query := r.db.Rebind(`
        SELECT ` + shipmentColumns + `
        FROM ship_requests
        WHERE user_id = ?
        ORDER BY id ASC`)

	items := []domain.ShipmentRequest{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

func (r *ShipmentRepository) FindByIDAndOwner(ctx context.Context, id, userID int64) (*domain.ShipmentRequest, error) {
	query := r.db.Rebind(`
        SELECT ` + shipmentColumns + `
        FROM ship_requests
        WHERE id = ? AND user_id = ?`)

	var shipment domain.ShipmentRequest
	if err := r.db.GetContext(ctx, &shipment, query, id, userID); err != nil {
		return nil, translateError(err)
	}
	return &shipment, nil
}

func (r *ShipmentRepository) Update(ctx context.Context, shipment *domain.ShipmentRequest) (*domain.ShipmentRequest, error) {
	query := r.db.Rebind(`
        UPDATE ship_requests
        SET product_name = ?,
            weight = ?,
            value = ?,
            updated_at = ?
        WHERE id = ? AND user_id = ?
        RETURNING ` + shipmentColumns)

	row := r.db.QueryRowxContext(ctx, query,
		shipment.ProductName, shipment.Weight, shipment.Value, shipment.UpdatedAt,
		shipment.ID, shipment.UserID)
	var updated domain.ShipmentRequest
	if err := row.StructScan(&updated); err != nil {
		return nil, translateError(err)
	}
	return &updated, nil
}
