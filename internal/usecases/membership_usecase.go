package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/metrics"
	"agro-market.backend/pkg/utils"
)

const topMembershipsLimit = 5

// MembershipUsecase manages the tier catalog and per-user assignments. A
// user holds at most one active assignment.
type MembershipUsecase struct {
	membershipRepo repositories.MembershipRepository
	assignmentRepo repositories.MembershipAssignmentRepository
	userRepo       repositories.UserRepository
	uow            repositories.UnitOfWork
	now            func() time.Time
}

func NewMembershipUsecase(
	membershipRepo repositories.MembershipRepository,
	assignmentRepo repositories.MembershipAssignmentRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
) *MembershipUsecase {
	return &MembershipUsecase{
		membershipRepo: membershipRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		uow:            uow,
		now:            utcNow,
	}
}

func (u *MembershipUsecase) SetClock(now func() time.Time) { u.now = now }

func (u *MembershipUsecase) CreateMembership(ctx context.Context, input *entities.CreateMembershipInput) (*entities.Membership, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.BadRequest("el nombre es obligatorio")
	}
	if input.DurationDays <= 0 {
		return nil, domainerrors.BadRequest("duracion_dias debe ser mayor a cero")
	}
	if input.Price.IsNegative() {
		return nil, domainerrors.InvalidAmount("el precio no puede ser negativo")
	}
	features := input.Features
	if len(features) == 0 {
		features = datatypes.JSON("[]")
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := u.now()
	m := &entities.Membership{
		ID:           utils.GenerateUUIDv7(),
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		DurationDays: input.DurationDays,
		Features:     features,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.membershipRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *MembershipUsecase) ListMemberships(ctx context.Context, active *bool) ([]*entities.Membership, error) {
	return u.membershipRepo.List(ctx, active)
}

func (u *MembershipUsecase) GetMembership(ctx context.Context, id uuid.UUID) (*entities.Membership, error) {
	m, err := u.membershipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "membresía no encontrada")
	}
	return m, nil
}

func (u *MembershipUsecase) UpdateMembership(ctx context.Context, id uuid.UUID, input *entities.UpdateMembershipInput) (*entities.Membership, error) {
	m, err := u.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.BadRequest("el nombre es obligatorio")
		}
		m.Name = name
	}
	if input.Description != nil {
		m.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, domainerrors.InvalidAmount("el precio no puede ser negativo")
		}
		m.Price = *input.Price
	}
	if input.DurationDays != nil {
		if *input.DurationDays <= 0 {
			return nil, domainerrors.BadRequest("duracion_dias debe ser mayor a cero")
		}
		m.DurationDays = *input.DurationDays
	}
	if len(input.Features) > 0 {
		m.Features = input.Features
	}
	if input.Active != nil {
		m.Active = *input.Active
	}
	m.UpdatedAt = u.now()

	if err := u.membershipRepo.Update(ctx, m); err != nil {
		return nil, notFoundAs(err, "membresía no encontrada")
	}
	return m, nil
}

// DeleteMembership retires a tier nobody currently holds.
func (u *MembershipUsecase) DeleteMembership(ctx context.Context, id uuid.UUID) error {
	if _, err := u.GetMembership(ctx, id); err != nil {
		return err
	}
	holders, err := u.assignmentRepo.CountActiveByMembership(ctx, id)
	if err != nil {
		return err
	}
	if holders > 0 {
		return domainerrors.Conflict("la membresía tiene usuarios activos")
	}
	if err := u.membershipRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "membresía no encontrada")
	}
	return nil
}

// Assign replaces the user's active membership with a new one starting now.
func (u *MembershipUsecase) Assign(ctx context.Context, userID, membershipID uuid.UUID) (*entities.MembershipAssignment, error) {
	m, err := u.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	var assignment *entities.MembershipAssignment
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		// the user row lock serializes assign and renew per user
		if _, err := u.userRepo.GetByID(u.uow.WithLock(txCtx), userID); err != nil {
			return notFoundAs(err, "usuario no encontrado")
		}
		if !m.Active {
			return domainerrors.Inactive("la membresía no está disponible")
		}
		if _, err := u.assignmentRepo.DeactivateForUser(txCtx, userID, nil); err != nil {
			return err
		}

		now := u.now()
		assignment = &entities.MembershipAssignment{
			ID:           utils.GenerateUUIDv7(),
			UserID:       userID,
			MembershipID: m.ID,
			Membership:   m,
			StartsAt:     now,
			ExpiresAt:    m.ExpiryFrom(now),
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return u.assignmentRepo.Create(txCtx, assignment)
	})
	if err != nil {
		return nil, err
	}

	metrics.MembershipsAssigned.Inc()
	logger.Info(ctx, "Membership assigned",
		zap.String("user_id", userID.String()),
		zap.String("membership_id", m.ID.String()),
		zap.Time("expires_at", assignment.ExpiresAt),
	)
	return assignment, nil
}

// GetActive returns the user's current membership. One found past its
// expiry is deactivated on the spot and reported as absent.
func (u *MembershipUsecase) GetActive(ctx context.Context, userID uuid.UUID) (*entities.ActiveMembership, error) {
	a, err := u.assignmentRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "no tiene membresía activa")
	}

	now := u.now()
	if a.IsExpired(now) {
		flipped, err := u.assignmentRepo.ExpireIfDue(ctx, a.ID, now)
		if err != nil {
			return nil, err
		}
		if flipped {
			metrics.ExpiredRecords.WithLabelValues("membership").Inc()
		}
		return nil, domainerrors.NotFound("no tiene membresía activa")
	}
	return &entities.ActiveMembership{Assignment: a, DaysRemaining: a.DaysRemaining(now)}, nil
}

func (u *MembershipUsecase) History(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.MembershipAssignment, int64, error) {
	return u.assignmentRepo.ListByUser(ctx, userID, pagination.Limit, pagination.CalculateOffset())
}

func (u *MembershipUsecase) Cancel(ctx context.Context, userID uuid.UUID) error {
	a, err := u.assignmentRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return notFoundAs(err, "no tiene membresía activa")
	}
	if err := u.assignmentRepo.Deactivate(ctx, a.ID); err != nil {
		return notFoundAs(err, "no tiene membresía activa")
	}
	logger.Info(ctx, "Membership cancelled", zap.String("user_id", userID.String()), zap.String("assignment_id", a.ID.String()))
	return nil
}

// Renew restarts one of the user's assignments from now and makes it the
// only active one.
func (u *MembershipUsecase) Renew(ctx context.Context, userID, assignmentID uuid.UUID) (*entities.MembershipAssignment, error) {
	var a *entities.MembershipAssignment
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)
		if _, err := u.userRepo.GetByID(lockCtx, userID); err != nil {
			return notFoundAs(err, "usuario no encontrado")
		}

		var err error
		a, err = u.assignmentRepo.GetByID(lockCtx, assignmentID)
		if err != nil {
			return notFoundAs(err, "membresía no encontrada")
		}
		if a.UserID != userID {
			return domainerrors.NotFound("membresía no encontrada")
		}
		if a.Membership == nil {
			return domainerrors.NotFound("membresía no encontrada")
		}
		if !a.Membership.Active {
			return domainerrors.Inactive("la membresía no está disponible")
		}

		if _, err := u.assignmentRepo.DeactivateForUser(txCtx, userID, &a.ID); err != nil {
			return err
		}
		now := u.now()
		a.StartsAt = now
		a.ExpiresAt = a.Membership.ExpiryFrom(now)
		a.Active = true
		a.UpdatedAt = now
		return u.assignmentRepo.Reactivate(txCtx, a.ID, a.StartsAt, a.ExpiresAt)
	})
	if err != nil {
		return nil, err
	}

	metrics.MembershipsAssigned.Inc()
	logger.Info(ctx, "Membership renewed",
		zap.String("user_id", userID.String()),
		zap.String("assignment_id", a.ID.String()),
		zap.Time("expires_at", a.ExpiresAt),
	)
	return a, nil
}

// SweepExpired deactivates every active assignment past its expiry.
func (u *MembershipUsecase) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return u.assignmentRepo.ExpireDue(ctx, now)
}

func (u *MembershipUsecase) Stats(ctx context.Context) (*entities.MembershipStats, error) {
	total, err := u.membershipRepo.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	active := true
	activeCount, err := u.membershipRepo.Count(ctx, &active)
	if err != nil {
		return nil, err
	}
	users, err := u.assignmentRepo.CountUsersWithActive(ctx)
	if err != nil {
		return nil, err
	}
	top, err := u.assignmentRepo.TopMemberships(ctx, topMembershipsLimit)
	if err != nil {
		return nil, err
	}
	return &entities.MembershipStats{
		TotalMemberships:  total,
		ActiveMemberships: activeCount,
		UsersWithActive:   users,
		Top:               top,
	}, nil
}
