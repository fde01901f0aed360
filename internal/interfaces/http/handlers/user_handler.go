package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/pkg/utils"
)

type UserAdminService interface {
	ListUsers(ctx context.Context, filter entities.UserFilter, pagination utils.PaginationParams) ([]*entities.User, int64, error)
	Disable(ctx context.Context, userID uuid.UUID) error
	Verify(ctx context.Context, userID uuid.UUID) error
}

// UserHandler exposes admin account actions
type UserHandler struct {
	users UserAdminService
}

func NewUserHandler(users UserAdminService) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/v1/users?rol=&estado=
func (h *UserHandler) List(c *gin.Context) {
	filter := entities.UserFilter{Role: entities.UserRole(c.Query("rol"))}
	if raw := c.Query("estado"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("estado inválido"))
			return
		}
		filter.Active = &active
	}

	p := paginationFromQuery(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, users, total, p)
}

// PATCH /api/v1/users/:id/disable
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.Disable(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "usuario desactivado", nil)
}

// PATCH /api/v1/users/:id/verify
func (h *UserHandler) Verify(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.Verify(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "usuario verificado", nil)
}
