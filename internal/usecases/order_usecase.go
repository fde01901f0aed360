package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/metrics"
	"agro-market.backend/pkg/utils"
)

// OrderUsecase drives orders through the status FSM.
type OrderUsecase struct {
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	listingRepo repositories.ListingRepository
	now         func() time.Time
}

func NewOrderUsecase(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	listingRepo repositories.ListingRepository,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		now:         utcNow,
	}
}

func (u *OrderUsecase) SetClock(now func() time.Time) { u.now = now }

// CreateOrder opens a pending order. The amount is taken as given; it is
// not checked against any listing price.
func (u *OrderUsecase) CreateOrder(ctx context.Context, buyerID uuid.UUID, input *entities.CreateOrderInput) (*entities.Order, error) {
	if !input.Total.IsPositive() {
		return nil, domainerrors.InvalidAmount("el monto debe ser mayor a cero")
	}
	if buyerID == input.SellerID {
		return nil, domainerrors.BadRequest("el comprador y el vendedor deben ser distintos")
	}
	if _, err := u.userRepo.GetByID(ctx, buyerID); err != nil {
		return nil, notFoundAs(err, "comprador no encontrado")
	}
	if _, err := u.userRepo.GetByID(ctx, input.SellerID); err != nil {
		return nil, notFoundAs(err, "vendedor no encontrado")
	}

	now := u.now()
	order := &entities.Order{
		ID:        utils.GenerateUUIDv7(),
		BuyerID:   buyerID,
		SellerID:  input.SellerID,
		Total:     input.Total,
		Status:    entities.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.ListingID != nil {
		listing, err := u.listingRepo.GetByID(ctx, *input.ListingID)
		if err != nil {
			return nil, notFoundAs(err, "anuncio no encontrado")
		}
		order.ListingID = &listing.ID
		order.ListingType = null.StringFrom(string(listing.Type))
	}

	if err := u.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	logger.Info(ctx, "Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("buyer_id", buyerID.String()),
		zap.String("seller_id", input.SellerID.String()),
		zap.String("total", order.Total.String()),
	)
	return order, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*entities.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "pedido no encontrado")
	}
	if !actor.canSee(order) {
		return nil, domainerrors.Forbidden("no participa en este pedido")
	}
	return order, nil
}

func (u *OrderUsecase) ListOrders(ctx context.Context, status entities.OrderStatus, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, domainerrors.BadRequest("estado de pedido inválido")
	}
	return u.orderRepo.List(ctx, status, pagination.Limit, pagination.CalculateOffset())
}

// ListUserOrders lists orders of userID. Only the user or an admin may ask.
func (u *OrderUsecase) ListUserOrders(ctx context.Context, actor Actor, userID uuid.UUID, role entities.OrderRole, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	if !actor.Admin && actor.UserID != userID {
		return nil, 0, domainerrors.Forbidden("no puede ver pedidos de otro usuario")
	}
	switch role {
	case "":
		role = entities.OrderRoleAny
	case entities.OrderRoleBuyer, entities.OrderRoleSeller, entities.OrderRoleAny:
	default:
		return nil, 0, domainerrors.BadRequest("tipo inválido")
	}
	return u.orderRepo.ListByUser(ctx, userID, role, pagination.Limit, pagination.CalculateOffset())
}

// UpdateStatus applies one FSM step.
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, next entities.OrderStatus) (*entities.Order, error) {
	if !next.IsValid() {
		return nil, domainerrors.BadRequest("estado de pedido inválido")
	}
	return u.transition(ctx, actor, id, next)
}

// Cancel moves any non-terminal order to cancelado.
func (u *OrderUsecase) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*entities.Order, error) {
	return u.transition(ctx, actor, id, entities.OrderStatusCancelled)
}

func (u *OrderUsecase) transition(ctx context.Context, actor Actor, id uuid.UUID, next entities.OrderStatus) (*entities.Order, error) {
	order, err := u.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domainerrors.Conflict("transición no permitida: " + string(order.Status) + " -> " + string(next))
	}

	ok, err := u.orderRepo.TransitionStatus(ctx, id, order.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainerrors.Conflict("el pedido fue modificado por otra operación")
	}

	metrics.OrderTransitions.WithLabelValues(string(next)).Inc()
	logger.Info(ctx, "Order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)),
	)
	order.Status = next
	order.UpdatedAt = u.now()
	return order, nil
}

// VerifyManually records an admin's manual payment check on the order.
func (u *OrderUsecase) VerifyManually(ctx context.Context, id uuid.UUID, notes string) (*entities.Order, error) {
	if err := u.orderRepo.MarkVerified(ctx, id, notes); err != nil {
		return nil, notFoundAs(err, "pedido no encontrado")
	}
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "pedido no encontrado")
	}
	return order, nil
}
