package repositories

import (
	"context"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *entities.Rating) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Rating, error)
	Exists(ctx context.Context, raterID, rateeID, orderID uuid.UUID) (bool, error)
	ListByRatee(ctx context.Context, rateeID uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error)
	ListByRater(ctx context.Context, raterID uuid.UUID, limit, offset int) ([]*entities.Rating, int64, error)
	// Distribution counts ratings per score. A nil rateeID counts all ratings.
	Distribution(ctx context.Context, rateeID *uuid.UUID) (entities.ScoreHistogram, error)
	Aggregate(ctx context.Context, rateeID *uuid.UUID) (entities.RatingAggregate, error)
	Ranking(ctx context.Context, minCount, limit int) ([]*entities.RankingEntry, error)
	Update(ctx context.Context, rating *entities.Rating) error
	Delete(ctx context.Context, id uuid.UUID) error
}
