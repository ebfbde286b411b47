package ports

import (
	"context"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, email, username, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
