package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *entities.Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error)
	List(ctx context.Context, active *bool) ([]*entities.Membership, error)
	Update(ctx context.Context, m *entities.Membership) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, active *bool) (int64, error)
}

type MembershipAssignmentRepository interface {
	Create(ctx context.Context, a *entities.MembershipAssignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.MembershipAssignment, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.MembershipAssignment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.MembershipAssignment, int64, error)
	// DeactivateForUser clears the active flag on every active assignment
	// of the user except keepID, when given.
	DeactivateForUser(ctx context.Context, userID uuid.UUID, keepID *uuid.UUID) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID, startsAt, expiresAt time.Time) error
	ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	CountActiveByMembership(ctx context.Context, membershipID uuid.UUID) (int64, error)
	CountUsersWithActive(ctx context.Context) (int64, error)
	TopMemberships(ctx context.Context, limit int) ([]entities.MembershipUsage, error)
}
