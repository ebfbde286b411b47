package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/ports"
)

// ShipmentInput holds the mutable fields of a shipping request. Weight and
// value are stored as given; only non-finite numbers are rejected.
type ShipmentInput struct {
	ProductName string
	Weight      float64
	Value       float64
}

type ShipmentService struct {
	shipments ports.ShipmentRepository
	now       func() time.Time
}

func NewShipmentService(shipments ports.ShipmentRepository) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		now:       time.Now,
	}
}

func (s *ShipmentService) Create(ctx context.Context, owner *domain.User, in ShipmentInput) (*domain.ShipmentRequest, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	in, err := normalizeShipmentInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.shipments.Create(ctx, &domain.ShipmentRequest{
		ProductName: in.ProductName,
		Weight:      in.Weight,
		Value:       in.Value,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      owner.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create shipping request: %w", err)
	}
	return created, nil
}

// List returns the owner's requests ordered by id.
func (s *ShipmentService) List(ctx context.Context, owner *domain.User) ([]domain.ShipmentRequest, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	items, err := s.shipments.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list shipping requests: %w", err)
	}
	if items == nil {
		items = []domain.ShipmentRequest{}
	}
	return items, nil
}

// Update overwrites the mutable fields of one of the owner's requests. A
// request owned by someone else is reported exactly like a missing one.
func (s *ShipmentService) Update(ctx context.Context, owner *domain.User, id int64, in ShipmentInput) (*domain.ShipmentRequest, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	if id <= 0 {
		return nil, ErrShipmentNotFound
	}
	in, err := normalizeShipmentInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.shipments.FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("load shipping request: %w", err)
	}
	if !existing.OwnedBy(owner.ID) {
		return nil, ErrShipmentNotFound
	}

	existing.ProductName = in.ProductName
	existing.Weight = in.Weight
	existing.Value = in.Value
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.shipments.Update(ctx, existing)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("update shipping request: %w", err)
	}
	return updated, nil
}

func normalizeShipmentInput(in ShipmentInput) (ShipmentInput, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	if in.ProductName == "" {
		return in, validationError("product_name is required")
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return in, validationError("weight must be a finite number")
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return in, validationError("value must be a finite number")
	}
	return in, nil
}
