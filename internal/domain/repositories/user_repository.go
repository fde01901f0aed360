package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByResetToken(ctx context.Context, token string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetVerified(ctx context.Context, id uuid.UUID) error
	SetListingCounter(ctx context.Context, id uuid.UUID, count int, at time.Time) error
	GetNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	List(ctx context.Context, filter entities.UserFilter, limit, offset int) ([]*entities.User, int64, error)
}
