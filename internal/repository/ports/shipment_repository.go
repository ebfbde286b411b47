package ports

import (
	"context"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
)

// ShipmentRepository persists shipment requests. Every read and write that
// targets an existing record is filtered by owner.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.ShipmentRequest) (*domain.ShipmentRequest, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.ShipmentRequest, error)
	FindByIDAndOwner(ctx context.Context, id, userID int64) (*domain.ShipmentRequest, error)
	Update(ctx context.Context, shipment *domain.ShipmentRequest) (*domain.ShipmentRequest, error)
}
