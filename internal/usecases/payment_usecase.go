package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/domain/repositories"
	"agro-market.backend/pkg/crypto"
	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/metrics"
	"agro-market.backend/pkg/utils"
)

const (
	DefaultQRExpiry  = 30 * time.Minute
	qrCodeSuffixSize = 9
)

// PaymentVerifier decides whether the payment evidence attached to a
// confirmation is genuine.
type PaymentVerifier interface {
	Verify(ctx context.Context, intent *entities.PaymentIntent, input entities.ConfirmPaymentInput) (bool, error)
}

var generateQRSuffix = func() (string, error) {
	return crypto.GenerateAlphanumeric(qrCodeSuffixSize)
}

// PaymentUsecase issues QR payment intents and confirms them against the
// order they pay for.
type PaymentUsecase struct {
	intentRepo repositories.PaymentIntentRepository
	orderRepo  repositories.OrderRepository
	uow        repositories.UnitOfWork
	verifier   PaymentVerifier
	expiry     time.Duration
	now        func() time.Time
}

func NewPaymentUsecase(
	intentRepo repositories.PaymentIntentRepository,
	orderRepo repositories.OrderRepository,
	uow repositories.UnitOfWork,
	verifier PaymentVerifier,
	expiry time.Duration,
) *PaymentUsecase {
	if expiry <= 0 {
		expiry = DefaultQRExpiry
	}
	return &PaymentUsecase{
		intentRepo: intentRepo,
		orderRepo:  orderRepo,
		uow:        uow,
		verifier:   verifier,
		expiry:     expiry,
		now:        utcNow,
	}
}

func (u *PaymentUsecase) SetClock(now func() time.Time) { u.now = now }

// CreateIntent issues a QR code for the full order amount. Nothing is
// persisted when the amount differs from the order total.
func (u *PaymentUsecase) CreateIntent(ctx context.Context, actor Actor, input *entities.CreatePaymentIntentInput) (*entities.PaymentIntent, error) {
	if !input.Method.IsValid() {
		return nil, domainerrors.BadRequest("método de pago inválido")
	}
	order, err := u.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, notFoundAs(err, "pedido no encontrado")
	}
	if !actor.canSee(order) {
		return nil, domainerrors.Forbidden("no participa en este pedido")
	}
	if !input.Amount.Equal(order.Total) {
		return nil, domainerrors.InvalidAmount("el monto no coincide con el total del pedido")
	}
	if order.Status != entities.OrderStatusPending {
		return nil, domainerrors.Conflict("el pedido no está pendiente de pago")
	}

	suffix, err := generateQRSuffix()
	if err != nil {
		return nil, err
	}
	now := u.now()
	qrData := input.QRData
	if len(qrData) == 0 {
		qrData = datatypes.JSON("{}")
	}
	intent := &entities.PaymentIntent{
		ID:        utils.GenerateUUIDv7(),
		OrderID:   order.ID,
		Amount:    order.Total,
		Method:    input.Method,
		Code:      fmt.Sprintf("QR_%d_%s", now.UnixMilli(), suffix),
		QRData:    qrData,
		Status:    entities.PaymentIntentStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(u.expiry),
		UpdatedAt: now,
	}
	if err := u.intentRepo.Create(ctx, intent); err != nil {
		return nil, err
	}

	metrics.PaymentIntents.WithLabelValues(string(intent.Status)).Inc()
	logger.Info(ctx, "Payment intent created",
		zap.String("intent_id", intent.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("code", intent.Code),
	)
	return intent, nil
}

// GetIntent returns the intent, expiring it first when its window passed.
func (u *PaymentUsecase) GetIntent(ctx context.Context, id uuid.UUID) (*entities.PaymentIntent, error) {
	intent, err := u.intentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "pago QR no encontrado")
	}
	return u.expireOnRead(ctx, intent)
}

func (u *PaymentUsecase) GetIntentByCode(ctx context.Context, code string) (*entities.PaymentIntent, error) {
	intent, err := u.intentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFoundAs(err, "código QR no encontrado")
	}
	return u.expireOnRead(ctx, intent)
}

func (u *PaymentUsecase) expireOnRead(ctx context.Context, intent *entities.PaymentIntent) (*entities.PaymentIntent, error) {
	now := u.now()
	if !intent.IsExpired(now) {
		return intent, nil
	}
	flipped, err := u.intentRepo.ExpireIfDue(ctx, intent.ID, now)
	if err != nil {
		return nil, err
	}
	if !flipped {
		// someone else wrote first; report what is stored
		return u.intentRepo.GetByID(ctx, intent.ID)
	}
	metrics.ExpiredRecords.WithLabelValues("payment_intent").Inc()
	intent.Status = entities.PaymentIntentStatusExpired
	intent.UpdatedAt = now
	return intent, nil
}

// Confirm settles a pending intent and marks its order paid in the same
// transaction. Expiry and verifier rejection are committed before their
// errors are returned.
func (u *PaymentUsecase) Confirm(ctx context.Context, actor Actor, id uuid.UUID, input entities.ConfirmPaymentInput) (*entities.PaymentIntent, error) {
	var (
		intent  *entities.PaymentIntent
		outcome error
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		var err error
		intent, err = u.intentRepo.GetByID(lockCtx, id)
		if err != nil {
			return notFoundAs(err, "pago QR no encontrado")
		}
		order, err := u.orderRepo.GetByID(lockCtx, intent.OrderID)
		if err != nil {
			return notFoundAs(err, "pedido no encontrado")
		}
		if !actor.canSee(order) {
			return domainerrors.Forbidden("no participa en este pedido")
		}

		now := u.now()
		switch intent.Status {
		case entities.PaymentIntentStatusPending:
		case entities.PaymentIntentStatusCompleted:
			return domainerrors.Conflict("el pago ya fue completado")
		case entities.PaymentIntentStatusExpired:
			return domainerrors.Expired("el código QR ha expirado")
		default:
			if now.After(intent.ExpiresAt) {
				return domainerrors.Expired("el código QR ha expirado")
			}
			return domainerrors.Conflict("el pago está " + string(intent.Status))
		}

		if intent.IsExpired(now) {
			if _, err := u.intentRepo.ExpireIfDue(txCtx, id, now); err != nil {
				return err
			}
			intent.Status = entities.PaymentIntentStatusExpired
			outcome = domainerrors.Expired("el código QR ha expirado")
			return nil
		}

		ok, err := u.verifier.Verify(txCtx, intent, input)
		if err != nil {
			return err
		}
		if !ok {
			if err := u.intentRepo.UpdateStatus(txCtx, id, entities.PaymentIntentStatusFailed); err != nil {
				return err
			}
			intent.Status = entities.PaymentIntentStatusFailed
			outcome = domainerrors.PaymentFailed("el pago no pudo ser verificado")
			return nil
		}

		if !order.Status.CanTransitionTo(entities.OrderStatusPaid) {
			return domainerrors.Conflict("el pedido no puede pasar a pagado desde " + string(order.Status))
		}
		if err := u.intentRepo.MarkCompleted(txCtx, id, now, input); err != nil {
			return err
		}
		moved, err := u.orderRepo.TransitionStatus(txCtx, order.ID, order.Status, entities.OrderStatusPaid)
		if err != nil {
			return err
		}
		if !moved {
			return domainerrors.Conflict("el pedido fue modificado por otra operación")
		}

		intent.Status = entities.PaymentIntentStatusCompleted
		intent.PaidAt.SetValid(now)
		if input.VerificationCode != "" {
			intent.VerificationCode.SetValid(input.VerificationCode)
		}
		if len(input.PaymentData) > 0 {
			intent.PaymentData = input.PaymentData
		}
		intent.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch intent.Status {
	case entities.PaymentIntentStatusExpired:
		metrics.ExpiredRecords.WithLabelValues("payment_intent").Inc()
	case entities.PaymentIntentStatusCompleted:
		metrics.OrderTransitions.WithLabelValues(string(entities.OrderStatusPaid)).Inc()
		metrics.PaymentIntents.WithLabelValues(string(intent.Status)).Inc()
	default:
		metrics.PaymentIntents.WithLabelValues(string(intent.Status)).Inc()
	}
	logger.Info(ctx, "Payment confirmation processed",
		zap.String("intent_id", id.String()),
		zap.String("status", string(intent.Status)),
	)
	if outcome != nil {
		return nil, outcome
	}
	return intent, nil
}

// Cancel withdraws an intent unless it was already paid.
func (u *PaymentUsecase) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*entities.PaymentIntent, error) {
	var intent *entities.PaymentIntent
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		intent, err = u.intentRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return notFoundAs(err, "pago QR no encontrado")
		}
		order, err := u.orderRepo.GetByID(txCtx, intent.OrderID)
		if err != nil {
			return notFoundAs(err, "pedido no encontrado")
		}
		if !actor.canSee(order) {
			return domainerrors.Forbidden("no participa en este pedido")
		}
		if intent.Status == entities.PaymentIntentStatusCompleted {
			return domainerrors.Conflict("no se puede cancelar un pago completado")
		}
		return u.intentRepo.UpdateStatus(txCtx, id, entities.PaymentIntentStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentIntents.WithLabelValues(string(entities.PaymentIntentStatusCancelled)).Inc()
	intent.Status = entities.PaymentIntentStatusCancelled
	intent.UpdatedAt = u.now()
	return intent, nil
}

func (u *PaymentUsecase) ListIntents(ctx context.Context, status entities.PaymentIntentStatus, pagination utils.PaginationParams) ([]*entities.PaymentIntent, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, domainerrors.BadRequest("estado de pago inválido")
	}
	return u.intentRepo.List(ctx, status, pagination.Limit, pagination.CalculateOffset())
}

func (u *PaymentUsecase) ListOrderIntents(ctx context.Context, actor Actor, orderID uuid.UUID) ([]*entities.PaymentIntent, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundAs(err, "pedido no encontrado")
	}
	if !actor.canSee(order) {
		return nil, domainerrors.Forbidden("no participa en este pedido")
	}
	return u.intentRepo.ListByOrder(ctx, orderID)
}

// SweepExpired bulk-expires pending intents past their window.
func (u *PaymentUsecase) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return u.intentRepo.ExpireDue(ctx, now)
}
