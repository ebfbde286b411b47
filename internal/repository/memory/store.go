// Package memory holds mutex-guarded implementations of the repository ports.
// It backs the "memory" database driver and the HTTP end-to-end tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/ports"
)

type Store struct {
	mu sync.RWMutex

	users      map[int64]domain.User
	byEmail    map[string]int64
	byUsername map[string]int64
	shipments  map[int64]domain.ShipmentRequest

	nextUserID     int64
	nextShipmentID int64
	now            func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]domain.User),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
		shipments:  make(map[int64]domain.ShipmentRequest),
		now:        time.Now,
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Shipments() *ShipmentRepository {
	return &ShipmentRepository{store: s}
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, email, username, passwordHash string) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, &ports.ConflictError{Field: "email"}
	}
	if _, ok := s.byUsername[username]; ok {
		return nil, &ports.ConflictError{Field: "username"}
	}

	s.nextUserID++
	user := domain.User{
		ID:           s.nextUserID,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	s.byUsername[username] = user.ID
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ports.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &user, nil
}

type ShipmentRepository struct {
	store *Store
}

func (r *ShipmentRepository) Create(ctx context.Context, shipment *domain.ShipmentRequest) (*domain.ShipmentRequest, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[shipment.UserID]; !ok {
		return nil, fmt.Errorf("owner %d: %w", shipment.UserID, ports.ErrNotFound)
	}

	s.nextShipmentID++
	created := *shipment
	created.ID = s.nextShipmentID
	s.shipments[created.ID] = created
	return &created, nil
}

func (r *ShipmentRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.ShipmentRequest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []domain.ShipmentRequest{}
	for _, shipment := range s.shipments {
		if shipment.UserID == userID {
			items = append(items, shipment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *ShipmentRepository) FindByIDAndOwner(ctx context.Context, id, userID int64) (*domain.ShipmentRequest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	shipment, ok := s.shipments[id]
	if !ok || shipment.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return &shipment, nil
}

func (r *ShipmentRepository) Update(ctx context.Context, shipment *domain.ShipmentRequest) (*domain.ShipmentRequest, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.shipments[shipment.ID]
	if !ok || existing.UserID != shipment.UserID {
		return nil, ports.ErrNotFound
	}
	existing.ProductName = shipment.ProductName
	existing.Weight = shipment.Weight
	existing.Value = shipment.Value
	existing.UpdatedAt = shipment.UpdatedAt
	s.shipments[existing.ID] = existing
	return &existing, nil
}

var (
	_ ports.UserRepository     = (*UserRepository)(nil)
	_ ports.ShipmentRepository = (*ShipmentRepository)(nil)
)
