package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
)

// PaymentIntentStatus represents the status of a QR payment intent
type PaymentIntentStatus string

const (
	PaymentIntentStatusPending   PaymentIntentStatus = "pendiente"
	PaymentIntentStatusCompleted PaymentIntentStatus = "completado"
	PaymentIntentStatusFailed    PaymentIntentStatus = "fallido"
	PaymentIntentStatusExpired   PaymentIntentStatus = "expirado"
	PaymentIntentStatusCancelled PaymentIntentStatus = "cancelado"
)

func (s PaymentIntentStatus) IsValid() bool {
	switch s {
	case PaymentIntentStatusPending, PaymentIntentStatusCompleted, PaymentIntentStatusFailed,
		PaymentIntentStatusExpired, PaymentIntentStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is the channel the payer uses to settle the QR.
type PaymentMethod string

const (
	PaymentMethodQRBank   PaymentMethod = "qr_bancario"
	PaymentMethodTigo     PaymentMethod = "tigo_money"
	PaymentMethodTransfer PaymentMethod = "transferencia"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodQRBank, PaymentMethodTigo, PaymentMethodTransfer:
		return true
	}
	return false
}

// PaymentIntent is a time-boxed request to confirm payment for one order.
type PaymentIntent struct {
	ID               uuid.UUID           `json:"id"`
	OrderID          uuid.UUID           `json:"id_pedido"`
	Amount           decimal.Decimal     `json:"monto"`
	Method           PaymentMethod       `json:"metodo_pago"`
	Code             string              `json:"codigo_qr"`
	QRData           datatypes.JSON      `json:"datos_qr,omitempty"`
	Status           PaymentIntentStatus `json:"estado"`
	CreatedAt        time.Time           `json:"fecha_creacion"`
	ExpiresAt        time.Time           `json:"fecha_expiracion"`
	PaidAt           null.Time           `json:"fecha_pago"`
	VerificationCode null.String         `json:"codigo_verificacion"`
	PaymentData      datatypes.JSON      `json:"datos_pago,omitempty"`
	UpdatedAt        time.Time           `json:"fecha_actualizacion"`
}

// IsExpired is true for a pending intent whose window has passed at now.
// Terminal intents never count as expired here.
func (p *PaymentIntent) IsExpired(now time.Time) bool {
	return p.Status == PaymentIntentStatusPending && now.After(p.ExpiresAt)
}

// SecondsRemaining is the time left in the payment window, floored at zero.
func (p *PaymentIntent) SecondsRemaining(now time.Time) int64 {
	if p.Status != PaymentIntentStatusPending || !now.Before(p.ExpiresAt) {
		return 0
	}
	return int64(p.ExpiresAt.Sub(now).Seconds())
}

type CreatePaymentIntentInput struct {
	OrderID uuid.UUID       `json:"id_pedido" binding:"required"`
	Amount  decimal.Decimal `json:"monto"`
	Method  PaymentMethod   `json:"metodo_pago" binding:"required"`
	QRData  datatypes.JSON  `json:"datos_qr"`
}

// ConfirmPaymentInput is the verification payload handed to the verifier.
type ConfirmPaymentInput struct {
	VerificationCode string         `json:"codigo_verificacion"`
	PaymentData      datatypes.JSON `json:"datos_pago"`
}
