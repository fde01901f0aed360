package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *entities.PaymentIntent) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentIntent, error)
	GetByCode(ctx context.Context, code string) (*entities.PaymentIntent, error)
	List(ctx context.Context, status entities.PaymentIntentStatus, limit, offset int) ([]*entities.PaymentIntent, int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.PaymentIntent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentIntentStatus) error
	MarkCompleted(ctx context.Context, id uuid.UUID, paidAt time.Time, input entities.ConfirmPaymentInput) error
	// ExpireIfDue flips one intent to expirado when it is pending and past
	// its window at now. Reports whether this call did the flip.
	ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	// ExpireDue flips every pending intent past its window.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
