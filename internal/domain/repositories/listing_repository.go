package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entities.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error)
	List(ctx context.Context, filter entities.ListingFilter, limit, offset int) ([]*entities.Listing, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ListingStatus) error
	IncrementReports(ctx context.Context, id uuid.UUID) error
	MarkModerated(ctx context.Context, id uuid.UUID, at time.Time) error
}
