package repositories

import (
	"context"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error)
	List(ctx context.Context, status entities.OrderStatus, limit, offset int) ([]*entities.Order, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, role entities.OrderRole, limit, offset int) ([]*entities.Order, int64, error)
	// TransitionStatus moves the order from -> to only if it is still in
	// from. It returns false when another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.OrderStatus) (bool, error)
	MarkVerified(ctx context.Context, id uuid.UUID, notes string) error
}
