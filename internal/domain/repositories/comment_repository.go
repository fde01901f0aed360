package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
	// List pages comments matching filter, newest first.
	List(ctx context.Context, filter entities.CommentFilter, limit, offset int) ([]*entities.Comment, int64, error)
	UpdateText(ctx context.Context, id uuid.UUID, text string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, since time.Time) (entities.CommentStats, error)
}
