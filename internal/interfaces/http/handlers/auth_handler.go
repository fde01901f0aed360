package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	"agro-market.backend/internal/interfaces/http/middleware"
	"agro-market.backend/internal/interfaces/http/response"
)

type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
	VerifyResetToken(ctx context.Context, token string) error
}

type ProfileService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
}

// AuthHandler handles authentication and profile endpoints
type AuthHandler struct {
	auth    AuthService
	profile ProfileService
	// exposeResetToken returns the reset token in the response body; there
	// is no mail delivery, so non-production setups need it to finish a reset.
	exposeResetToken bool
}

func NewAuthHandler(auth AuthService, profile ProfileService, exposeResetToken bool) *AuthHandler {
	return &AuthHandler{auth: auth, profile: profile, exposeResetToken: exposeResetToken}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "usuario registrado", user)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	auth, err := h.auth.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, auth)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input entities.RefreshInput
	if !bindJSON(c, &input) {
		return
	}

	auth, err := h.auth.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, auth)
}

// Logout revokes the caller's access token and the refresh token, if sent.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), middleware.GetAccessToken(c), input.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "sesión cerrada", nil)
}

// ForgotPassword always answers 200 so the endpoint cannot be used to discover
// which emails are registered.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.ForgotPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	token, err := h.auth.RequestPasswordReset(c.Request.Context(), input.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	var data interface{}
	if h.exposeResetToken && token != "" {
		data = gin.H{"token": token}
	}
	response.SuccessWithMessage(c, http.StatusOK, "si el email existe, se generó un token de recuperación", data)
}

// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "contraseña actualizada", nil)
}

// POST /api/v1/auth/verify-reset-token
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	var input entities.VerifyResetTokenInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.auth.VerifyResetToken(c.Request.Context(), input.Token); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "token válido", gin.H{"token_valido": true})
}

// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "contraseña actualizada", nil)
}

// GetMe returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.profile.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// PUT /api/v1/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.profile.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
