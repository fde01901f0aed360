package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID uuid.UUID, input *entities.CreateOrderInput) (*entities.Order, error)
	GetOrder(ctx context.Context, actor usecases.Actor, id uuid.UUID) (*entities.Order, error)
	ListOrders(ctx context.Context, status entities.OrderStatus, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	ListUserOrders(ctx context.Context, actor usecases.Actor, userID uuid.UUID, role entities.OrderRole, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	UpdateStatus(ctx context.Context, actor usecases.Actor, id uuid.UUID, next entities.OrderStatus) (*entities.Order, error)
	Cancel(ctx context.Context, actor usecases.Actor, id uuid.UUID) (*entities.Order, error)
	VerifyManually(ctx context.Context, id uuid.UUID, notes string) (*entities.Order, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder opens an order with the caller as buyer
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input entities.CreateOrderInput
	if !bindJSON(c, &input) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), buyerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, order)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// ListOrders lists every order, optionally by ?estado=
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	status := entities.OrderStatus(c.Query("estado"))
	if status != "" && !status.IsValid() {
		response.Error(c, domainerrors.BadRequest("estado de pedido inválido"))
		return
	}

	p := paginationFromQuery(c)
	orders, total, err := h.orders.ListOrders(c.Request.Context(), status, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, orders, total, p)
}

// ListUserOrders lists a user's orders as buyer, seller or both (?tipo=)
// GET /api/v1/orders/user/:userId
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	role := entities.OrderRole(c.DefaultQuery("tipo", string(entities.OrderRoleAny)))

	p := paginationFromQuery(c)
	orders, total, err := h.orders.ListUserOrders(c.Request.Context(), actor, userID, role, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, orders, total, p)
}

// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.UpdateOrderStatusInput
	if !bindJSON(c, &input) {
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), actor, id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// PATCH /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// PATCH /api/v1/orders/:id/verify
func (h *OrderHandler) Verify(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.VerifyOrderInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	order, err := h.orders.VerifyManually(c.Request.Context(), id, input.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}
