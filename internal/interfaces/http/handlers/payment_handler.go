package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, actor usecases.Actor, input *entities.CreatePaymentIntentInput) (*entities.PaymentIntent, error)
	GetIntent(ctx context.Context, id uuid.UUID) (*entities.PaymentIntent, error)
	GetIntentByCode(ctx context.Context, code string) (*entities.PaymentIntent, error)
	Confirm(ctx context.Context, actor usecases.Actor, id uuid.UUID, input entities.ConfirmPaymentInput) (*entities.PaymentIntent, error)
	Cancel(ctx context.Context, actor usecases.Actor, id uuid.UUID) (*entities.PaymentIntent, error)
	ListIntents(ctx context.Context, status entities.PaymentIntentStatus, pagination utils.PaginationParams) ([]*entities.PaymentIntent, int64, error)
	ListOrderIntents(ctx context.Context, actor usecases.Actor, orderID uuid.UUID) ([]*entities.PaymentIntent, error)
}

// PaymentHandler handles QR payment intent endpoints
type PaymentHandler struct {
	payments PaymentService
	now      func() time.Time
}

func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments, now: time.Now}
}

// paymentIntentView adds the countdown the payer's screen shows.
type paymentIntentView struct {
	*entities.PaymentIntent
	SecondsRemaining int64 `json:"segundos_restantes"`
}

func (h *PaymentHandler) view(intent *entities.PaymentIntent) paymentIntentView {
	return paymentIntentView{PaymentIntent: intent, SecondsRemaining: intent.SecondsRemaining(h.now())}
}

func (h *PaymentHandler) views(intents []*entities.PaymentIntent) []paymentIntentView {
	out := make([]paymentIntentView, 0, len(intents))
	for _, intent := range intents {
		out = append(out, h.view(intent))
	}
	return out
}

// CreateIntent opens a QR payment window for an order
// POST /api/v1/payments-qr
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input entities.CreatePaymentIntentInput
	if !bindJSON(c, &input) {
		return
	}

	intent, err := h.payments.CreateIntent(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.view(intent))
}

// GET /api/v1/payments-qr/:id
func (h *PaymentHandler) GetIntent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	intent, err := h.payments.GetIntent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(intent))
}

// GetIntentByCode is public so the payer can scan and check the QR.
// GET /api/v1/payments-qr/code/:code
func (h *PaymentHandler) GetIntentByCode(c *gin.Context) {
	intent, err := h.payments.GetIntentByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(intent))
}

// Confirm settles a pending intent through the payment verifier
// PUT /api/v1/payments-qr/:id/confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var input entities.ConfirmPaymentInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	intent, err := h.payments.Confirm(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(intent))
}

// DELETE /api/v1/payments-qr/:id
func (h *PaymentHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	intent, err := h.payments.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(intent))
}

// GET /api/v1/payments-qr
func (h *PaymentHandler) ListIntents(c *gin.Context) {
	status := entities.PaymentIntentStatus(c.Query("estado"))
	if status != "" && !status.IsValid() {
		response.Error(c, domainerrors.BadRequest("estado de pago inválido"))
		return
	}

	p := paginationFromQuery(c)
	intents, total, err := h.payments.ListIntents(c.Request.Context(), status, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, h.views(intents), total, p)
}

// GET /api/v1/payments-qr/order/:orderId
func (h *PaymentHandler) ListOrderIntents(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "orderId")
	if !ok {
		return
	}

	intents, err := h.payments.ListOrderIntents(c.Request.Context(), actor, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.views(intents))
}
