package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	List(ctx context.Context) ([]*entities.Category, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	List(ctx context.Context, filter entities.ProductFilter, limit, offset int) ([]*entities.Product, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Update(ctx context.Context, product *entities.Product) error
}

type FavoriteRepository interface {
	Create(ctx context.Context, fav *entities.Favorite) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Favorite, error)
	// CountByUser counts the user's favorites, only those added at or after
	// since when it is not nil.
	CountByUser(ctx context.Context, userID uuid.UUID, since *time.Time) (int64, error)
	// Popular ranks active products by favorite count, most favorited first.
	Popular(ctx context.Context, limit int) ([]*entities.PopularProduct, error)
}
