package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/utils"
)

// UserUsecase covers profile reads and edits plus admin account actions.
type UserUsecase struct {
	userRepo repositories.UserRepository
	now      func() time.Time
}

func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, now: utcNow}
}

func (u *UserUsecase) SetClock(now func() time.Time) { u.now = now }

func (u *UserUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "usuario no encontrado")
	}
	return user, nil
}

// UpdateProfile applies only the fields present in input.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "usuario no encontrado")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.BadRequest("el nombre no puede estar vacío")
		}
		user.Name = name
	}
	if input.LastName != nil {
		user.LastName = optionalString(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = optionalString(*input.Phone)
	}
	if input.Address != nil {
		user.Address = optionalString(*input.Address)
	}
	if input.Latitude != nil {
		user.Latitude = null.Float64From(*input.Latitude)
	}
	if input.Longitude != nil {
		user.Longitude = null.Float64From(*input.Longitude)
	}
	user.UpdatedAt = u.now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Disable soft-deletes an account. Accounts are never removed.
func (u *UserUsecase) Disable(ctx context.Context, userID uuid.UUID) error {
	if err := u.userRepo.SetActive(ctx, userID, false); err != nil {
		return notFoundAs(err, "usuario no encontrado")
	}
	logger.Info(ctx, "User disabled", zap.String("user_id", userID.String()))
	return nil
}

func (u *UserUsecase) Verify(ctx context.Context, userID uuid.UUID) error {
	if err := u.userRepo.SetVerified(ctx, userID); err != nil {
		return notFoundAs(err, "usuario no encontrado")
	}
	return nil
}

// ListUsers pages accounts for the admin panel, newest first.
func (u *UserUsecase) ListUsers(ctx context.Context, filter entities.UserFilter, pagination utils.PaginationParams) ([]*entities.User, int64, error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, 0, domainerrors.BadRequest("rol no válido")
	}
	return u.userRepo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
}
