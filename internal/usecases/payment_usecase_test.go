package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/usecases"
	"agro-market.backend/pkg/utils"
)

type paymentMocks struct {
	intents  *MockPaymentIntentRepository
	orders   *MockOrderRepository
	uow      *MockUnitOfWork
	verifier *MockVerifier
}

var paymentNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func newPaymentUsecase() (*usecases.PaymentUsecase, paymentMocks) {
	m := paymentMocks{
		intents:  new(MockPaymentIntentRepository),
		orders:   new(MockOrderRepository),
		uow:      passThroughUOW(),
		verifier: new(MockVerifier),
	}
	uc := usecases.NewPaymentUsecase(m.intents, m.orders, m.uow, m.verifier, 0)
	uc.SetClock(func() time.Time { return paymentNow })
	return uc, m
}

func pendingOrder() *entities.Order {
	return &entities.Order{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Total:    decimal.RequireFromString("300.00"),
		Status:   entities.OrderStatusPending,
	}
}

func pendingIntent(orderID uuid.UUID, expiresAt time.Time) *entities.PaymentIntent {
	return &entities.PaymentIntent{
		ID:        uuid.New(),
		OrderID:   orderID,
		Amount:    decimal.NewFromInt(300),
		Method:    entities.PaymentMethodQRBank,
		Code:      "QR_1_abc",
		Status:    entities.PaymentIntentStatusPending,
		ExpiresAt: expiresAt,
	}
}

func TestPaymentUsecase_CreateIntent(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.intents.On("Create", mock.Anything, mock.AnythingOfType("*entities.PaymentIntent")).Return(nil).Once()

	intent, err := uc.CreateIntent(context.Background(), usecases.Actor{UserID: order.BuyerID}, &entities.CreatePaymentIntentInput{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(300),
		Method:  entities.PaymentMethodTigo,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^QR_\d+_[0-9a-z]{9}$`, intent.Code)
	assert.Equal(t, entities.PaymentIntentStatusPending, intent.Status)
	assert.Equal(t, paymentNow.Add(usecases.DefaultQRExpiry), intent.ExpiresAt)
	assert.Equal(t, datatypes.JSON("{}"), intent.QRData)
	m.intents.AssertExpectations(t)
}

func TestPaymentUsecase_CreateIntent_Rejects(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	paid := pendingOrder()
	paid.Status = entities.OrderStatusPaid
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.orders.On("GetByID", mock.Anything, paid.ID).Return(paid, nil)
	buyer := usecases.Actor{UserID: order.BuyerID}

	_, err := uc.CreateIntent(context.Background(), buyer, &entities.CreatePaymentIntentInput{
		OrderID: order.ID, Amount: decimal.NewFromInt(300), Method: "efectivo",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.CreateIntent(context.Background(), buyer, &entities.CreatePaymentIntentInput{
		OrderID: order.ID, Amount: decimal.NewFromInt(299), Method: entities.PaymentMethodQRBank,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	_, err = uc.CreateIntent(context.Background(), usecases.Actor{UserID: uuid.New()}, &entities.CreatePaymentIntentInput{
		OrderID: order.ID, Amount: decimal.NewFromInt(300), Method: entities.PaymentMethodQRBank,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = uc.CreateIntent(context.Background(), usecases.Actor{UserID: paid.BuyerID}, &entities.CreatePaymentIntentInput{
		OrderID: paid.ID, Amount: decimal.NewFromInt(300), Method: entities.PaymentMethodQRBank,
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	m.intents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Confirm_Success(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	intent := pendingIntent(order.ID, paymentNow.Add(10*time.Minute))
	input := entities.ConfirmPaymentInput{VerificationCode: "BNB-123", PaymentData: datatypes.JSON(`{"banco":"BNB"}`)}

	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.verifier.On("Verify", mock.Anything, intent, input).Return(true, nil).Once()
	m.intents.On("MarkCompleted", mock.Anything, intent.ID, paymentNow, input).Return(nil).Once()
	m.orders.On("TransitionStatus", mock.Anything, order.ID, entities.OrderStatusPending, entities.OrderStatusPaid).Return(true, nil).Once()

	got, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID, input)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentIntentStatusCompleted, got.Status)
	assert.Equal(t, paymentNow, got.PaidAt.Time)
	assert.Equal(t, "BNB-123", got.VerificationCode.String)
	m.intents.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.uow.AssertCalled(t, "WithLock", mock.Anything)
}

func TestPaymentUsecase_Confirm_ExpiredIsCommitted(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	intent := pendingIntent(order.ID, paymentNow.Add(-time.Second))
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.intents.On("ExpireIfDue", mock.Anything, intent.ID, paymentNow).Return(true, nil).Once()

	_, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID, entities.ConfirmPaymentInput{})
	assert.ErrorIs(t, err, domainerrors.ErrExpired)
	assert.Equal(t, 410, domainerrors.AsAppError(err).Code)
	m.intents.AssertExpectations(t)
	m.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	m.orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Confirm_VerifierRejects(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	intent := pendingIntent(order.ID, paymentNow.Add(time.Minute))
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.verifier.On("Verify", mock.Anything, intent, mock.Anything).Return(false, nil)
	m.intents.On("UpdateStatus", mock.Anything, intent.ID, entities.PaymentIntentStatusFailed).Return(nil).Once()

	_, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.SellerID}, intent.ID, entities.ConfirmPaymentInput{})
	assert.ErrorIs(t, err, domainerrors.ErrPaymentFailed)
	m.intents.AssertExpectations(t)
	m.intents.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Confirm_VerifierError(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	intent := pendingIntent(order.ID, paymentNow.Add(time.Minute))
	boom := errors.New("gateway down")
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.verifier.On("Verify", mock.Anything, intent, mock.Anything).Return(false, boom)

	_, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID, entities.ConfirmPaymentInput{})
	assert.ErrorIs(t, err, boom)
	m.intents.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Confirm_TerminalIntents(t *testing.T) {
	for _, status := range []entities.PaymentIntentStatus{
		entities.PaymentIntentStatusCompleted,
		entities.PaymentIntentStatusFailed,
		entities.PaymentIntentStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			uc, m := newPaymentUsecase()
			order := pendingOrder()
			intent := pendingIntent(order.ID, paymentNow.Add(time.Minute))
			intent.Status = status
			m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
			m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

			_, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID, entities.ConfirmPaymentInput{})
			assert.ErrorIs(t, err, domainerrors.ErrConflict)
			m.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentUsecase_Confirm_PastWindow(t *testing.T) {
	cases := []struct {
		name   string
		status entities.PaymentIntentStatus
	}{
		{"swept to expirado", entities.PaymentIntentStatusExpired},
		{"fallido after expiry", entities.PaymentIntentStatusFailed},
		{"cancelado after expiry", entities.PaymentIntentStatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, m := newPaymentUsecase()
			order := pendingOrder()
			intent := pendingIntent(order.ID, paymentNow.Add(-10*time.Minute))
			intent.Status = tc.status
			m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
			m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

			_, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID, entities.ConfirmPaymentInput{})
			assert.ErrorIs(t, err, domainerrors.ErrExpired)
			assert.Equal(t, http.StatusGone, domainerrors.AsAppError(err).Code)
			m.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
			m.intents.AssertNotCalled(t, "ExpireIfDue", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentUsecase_Confirm_OrderMovedMeanwhile(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	intent := pendingIntent(order.ID, paymentNow.Add(time.Minute))
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.verifier.On("Verify", mock.Anything, intent, mock.Anything).Return(true, nil)
	m.intents.On("MarkCompleted", mock.Anything, intent.ID, paymentNow, mock.Anything).Return(nil)
	m.orders.On("TransitionStatus", mock.Anything, order.ID, entities.OrderStatusPending, entities.OrderStatusPaid).Return(false, nil)

	_, err := uc.Confirm(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID, entities.ConfirmPaymentInput{})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestPaymentUsecase_GetIntent_ExpiresOnRead(t *testing.T) {
	uc, m := newPaymentUsecase()
	intent := pendingIntent(uuid.New(), paymentNow.Add(-time.Minute))
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.intents.On("ExpireIfDue", mock.Anything, intent.ID, paymentNow).Return(true, nil).Once()

	got, err := uc.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentIntentStatusExpired, got.Status)
	assert.Zero(t, got.SecondsRemaining(paymentNow))
	m.intents.AssertExpectations(t)
}

func TestPaymentUsecase_GetIntentByCode_ReReadsAfterLostFlip(t *testing.T) {
	uc, m := newPaymentUsecase()
	stale := pendingIntent(uuid.New(), paymentNow.Add(-time.Minute))
	stored := *stale
	stored.Status = entities.PaymentIntentStatusCompleted

	m.intents.On("GetByCode", mock.Anything, stale.Code).Return(stale, nil)
	m.intents.On("ExpireIfDue", mock.Anything, stale.ID, paymentNow).Return(false, nil).Once()
	m.intents.On("GetByID", mock.Anything, stale.ID).Return(&stored, nil).Once()

	got, err := uc.GetIntentByCode(context.Background(), stale.Code)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentIntentStatusCompleted, got.Status)
	m.intents.AssertExpectations(t)
}

func TestPaymentUsecase_GetIntent_StillOpen(t *testing.T) {
	uc, m := newPaymentUsecase()
	intent := pendingIntent(uuid.New(), paymentNow.Add(5*time.Minute))
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)

	got, err := uc.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), got.SecondsRemaining(paymentNow))
	m.intents.AssertNotCalled(t, "ExpireIfDue", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_Cancel(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	intent := pendingIntent(order.ID, paymentNow.Add(time.Minute))
	done := pendingIntent(order.ID, paymentNow.Add(time.Minute))
	done.Status = entities.PaymentIntentStatusCompleted
	m.intents.On("GetByID", mock.Anything, intent.ID).Return(intent, nil)
	m.intents.On("GetByID", mock.Anything, done.ID).Return(done, nil)
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.intents.On("UpdateStatus", mock.Anything, intent.ID, entities.PaymentIntentStatusCancelled).Return(nil).Once()

	got, err := uc.Cancel(context.Background(), usecases.Actor{UserID: order.BuyerID}, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentIntentStatusCancelled, got.Status)

	_, err = uc.Cancel(context.Background(), usecases.Actor{UserID: order.BuyerID}, done.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	m.intents.AssertExpectations(t)
}

func TestPaymentUsecase_ListAndSweep(t *testing.T) {
	uc, m := newPaymentUsecase()
	order := pendingOrder()
	m.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	m.intents.On("ListByOrder", mock.Anything, order.ID).Return([]*entities.PaymentIntent{{ID: uuid.New()}}, nil)
	m.intents.On("ExpireDue", mock.Anything, paymentNow).Return(int64(4), nil)

	items, err := uc.ListOrderIntents(context.Background(), usecases.Actor{UserID: order.SellerID}, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = uc.ListOrderIntents(context.Background(), usecases.Actor{UserID: uuid.New()}, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, _, err = uc.ListIntents(context.Background(), "perdido", utils.GetPaginationParams(1, 10))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	n, err := uc.SweepExpired(context.Background(), paymentNow)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
