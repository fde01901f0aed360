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

type MembershipService interface {
	CreateMembership(ctx context.Context, input *entities.CreateMembershipInput) (*entities.Membership, error)
	ListMemberships(ctx context.Context, active *bool) ([]*entities.Membership, error)
	GetMembership(ctx context.Context, id uuid.UUID) (*entities.Membership, error)
	UpdateMembership(ctx context.Context, id uuid.UUID, input *entities.UpdateMembershipInput) (*entities.Membership, error)
	DeleteMembership(ctx context.Context, id uuid.UUID) error
	Assign(ctx context.Context, userID, membershipID uuid.UUID) (*entities.MembershipAssignment, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*entities.ActiveMembership, error)
	History(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.MembershipAssignment, int64, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
	Renew(ctx context.Context, userID, assignmentID uuid.UUID) (*entities.MembershipAssignment, error)
	Stats(ctx context.Context) (*entities.MembershipStats, error)
}

// MembershipHandler handles plan management and user subscriptions
type MembershipHandler struct {
	memberships MembershipService
}

func NewMembershipHandler(memberships MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// List returns plans, optionally filtered by ?activo=true|false
// GET /api/v1/memberships
func (h *MembershipHandler) List(c *gin.Context) {
	var active *bool
	if raw := c.Query("activo"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("activo debe ser true o false"))
			return
		}
		active = &v
	}

	memberships, err := h.memberships.ListMemberships(c.Request.Context(), active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, memberships)
}

// GET /api/v1/memberships/:id
func (h *MembershipHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	membership, err := h.memberships.GetMembership(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, membership)
}

// POST /api/v1/memberships
func (h *MembershipHandler) Create(c *gin.Context) {
	var input entities.CreateMembershipInput
	if !bindJSON(c, &input) {
		return
	}

	membership, err := h.memberships.CreateMembership(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, membership)
}

// PUT /api/v1/memberships/:id
func (h *MembershipHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateMembershipInput
	if !bindJSON(c, &input) {
		return
	}

	membership, err := h.memberships.UpdateMembership(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, membership)
}

// DELETE /api/v1/memberships/:id
func (h *MembershipHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberships.DeleteMembership(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "membresía eliminada", nil)
}

// Assign subscribes the caller to a plan, replacing any active one. Admins
// may pass id_usuario to subscribe someone else.
// POST /api/v1/memberships/assign
func (h *MembershipHandler) Assign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input entities.AssignMembershipInput
	if !bindJSON(c, &input) {
		return
	}

	target := actor.UserID
	if input.UserID != nil && *input.UserID != actor.UserID {
		if !actor.Admin {
			response.Error(c, domainerrors.Forbidden("solo un administrador puede asignar membresías a otros usuarios"))
			return
		}
		target = *input.UserID
	}

	assignment, err := h.memberships.Assign(c.Request.Context(), target, input.MembershipID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, assignment)
}

// GET /api/v1/memberships/me/active
func (h *MembershipHandler) GetActive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	active, err := h.memberships.GetActive(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, active)
}

// GET /api/v1/memberships/me/history
func (h *MembershipHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p := paginationFromQuery(c)
	history, total, err := h.memberships.History(c.Request.Context(), userID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, history, total, p)
}

// PUT /api/v1/memberships/me/cancel
func (h *MembershipHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.memberships.Cancel(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "membresía cancelada", nil)
}

// PUT /api/v1/memberships/renew/:id
func (h *MembershipHandler) Renew(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.memberships.Renew(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, assignment)
}

// GET /api/v1/memberships/stats
func (h *MembershipHandler) Stats(c *gin.Context) {
	stats, err := h.memberships.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
