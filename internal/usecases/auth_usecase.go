package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/crypto"
	"agro-market.backend/pkg/jwt"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/utils"
)

const resetTokenTTL = time.Hour

// TokenBlocklist stores tokens revoked before their expiry.
type TokenBlocklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	blocklist  TokenBlocklist
	dailyLimit int
	now        func() time.Time
}

// NewAuthUsecase creates a new auth usecase. blocklist may be nil, in which
// case logout is a no-op and refresh tokens are never checked.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	blocklist TokenBlocklist,
	dailyLimit int,
) *AuthUsecase {
	if dailyLimit <= 0 {
		dailyLimit = entities.DefaultDailyListingLimit
	}
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		blocklist:  blocklist,
		dailyLimit: dailyLimit,
		now:        utcNow,
	}
}

func (u *AuthUsecase) SetClock(now func() time.Time) { u.now = now }

// Register creates an account. Only comprador and vendedor can be chosen at
// sign-up; an empty role means comprador.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	email := normalizeEmail(input.Email)
	role := input.Role
	if role == "" {
		role = entities.UserRoleBuyer
	}
	if role != entities.UserRoleBuyer && role != entities.UserRoleSeller {
		return nil, domainerrors.BadRequest("rol inválido")
	}

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.AlreadyExists("el email ya está registrado")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:                utils.GenerateUUIDv7(),
		Email:             email,
		Name:              strings.TrimSpace(input.Name),
		LastName:          optionalString(input.LastName),
		PasswordHash:      passwordHash,
		Phone:             optionalString(input.Phone),
		Address:           optionalString(input.Address),
		Role:              role,
		Active:            true,
		DailyListingLimit: u.dailyLimit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	return user, nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}
	if !user.Active {
		return nil, domainerrors.Unauthorized("cuenta desactivada")
	}

	return u.issue(user)
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("refresh token inválido")
	}
	if err := u.checkRevoked(ctx, refreshToken); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("usuario no encontrado")
		}
		return nil, err
	}
	if !user.Active {
		return nil, domainerrors.Unauthorized("cuenta desactivada")
	}

	// the old refresh token is single use
	if err := u.revoke(ctx, refreshToken); err != nil {
		return nil, err
	}
	return u.issue(user)
}

// Logout revokes the access token and, when given, the refresh token.
func (u *AuthUsecase) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := u.revoke(ctx, accessToken); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	return u.revoke(ctx, refreshToken)
}

// IsRevoked reports whether token was logged out.
func (u *AuthUsecase) IsRevoked(ctx context.Context, token string) (bool, error) {
	if u.blocklist == nil {
		return false, nil
	}
	return u.blocklist.IsRevoked(ctx, token)
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, "usuario no encontrado")
	}
	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.Unauthorized("la contraseña actual no es correcta")
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = u.now()
	return u.userRepo.Update(ctx, user)
}

// RequestPasswordReset stores a one hour reset token on the account. The
// token is returned so the caller can deliver it; unknown emails yield an
// empty token and no error.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		return "", err
	}
	now := u.now()
	user.ResetToken = null.StringFrom(token)
	user.ResetTokenExpiresAt = null.TimeFrom(now.Add(resetTokenTTL))
	user.UpdatedAt = now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	logger.Info(ctx, "Password reset requested", zap.String("user_id", user.ID.String()))
	return token, nil
}

// VerifyResetToken reports whether token can still be used to reset a password.
func (u *AuthUsecase) VerifyResetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domainerrors.BadRequest("el token es obligatorio")
	}
	user, err := u.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return notFoundAs(err, "token de recuperación no válido")
	}
	if !user.ResetTokenExpiresAt.Valid || u.now().After(user.ResetTokenExpiresAt.Time) {
		return domainerrors.Expired("el token de recuperación ha expirado")
	}
	return nil
}

func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	user, err := u.userRepo.GetByResetToken(ctx, input.Token)
	if err != nil {
		return notFoundAs(err, "token de recuperación no válido")
	}

	now := u.now()
	if !user.ResetTokenExpiresAt.Valid || now.After(user.ResetTokenExpiresAt.Time) {
		return domainerrors.Expired("el token de recuperación ha expirado")
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = null.String{}
	user.ResetTokenExpiresAt = null.Time{}
	user.UpdatedAt = now
	return u.userRepo.Update(ctx, user)
}

func (u *AuthUsecase) issue(user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         user,
	}, nil
}

func (u *AuthUsecase) checkRevoked(ctx context.Context, token string) error {
	revoked, err := u.IsRevoked(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return domainerrors.Unauthorized("token revocado")
	}
	return nil
}

// revoke blocklists token until its own expiry. Tokens that no longer parse
// are already unusable and are skipped.
func (u *AuthUsecase) revoke(ctx context.Context, token string) error {
	if u.blocklist == nil || token == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	return u.blocklist.Revoke(ctx, token, claims.ExpiresAt.Time.Sub(u.now()))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
