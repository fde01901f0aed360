package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusPaid      OrderStatus = "pagado"
	OrderStatusShipped   OrderStatus = "enviado"
	OrderStatusDelivered OrderStatus = "entregado"
	OrderStatusCompleted OrderStatus = "completado"
	OrderStatusCancelled OrderStatus = "cancelado"
)

// orderTransitions lists the allowed next states per current state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: nil,
	OrderStatusCancelled: nil,
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether the order FSM allows s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsRateable reports whether ratings may reference an order in this state.
func (s OrderStatus) IsRateable() bool {
	return s == OrderStatusDelivered || s == OrderStatusCompleted
}

// Order links a buyer and a seller, optionally through a listing.
type Order struct {
	ID                uuid.UUID       `json:"id"`
	BuyerID           uuid.UUID       `json:"id_comprador"`
	SellerID          uuid.UUID       `json:"id_vendedor"`
	ListingID         *uuid.UUID      `json:"id_anuncio,omitempty"`
	ListingType       null.String     `json:"tipo_anuncio"`
	Total             decimal.Decimal `json:"monto_total"`
	Status            OrderStatus     `json:"estado"`
	ManuallyVerified  bool            `json:"verificado_manualmente"`
	VerificationNotes null.String     `json:"notas_verificacion"`
	CreatedAt         time.Time       `json:"fecha"`
	UpdatedAt         time.Time       `json:"fecha_actualizacion"`
}

// IsParty reports whether userID is the buyer or the seller.
func (o *Order) IsParty(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}

type CreateOrderInput struct {
	SellerID  uuid.UUID       `json:"id_vendedor" binding:"required"`
	ListingID *uuid.UUID      `json:"id_anuncio"`
	Total     decimal.Decimal `json:"monto_total"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"estado" binding:"required"`
}

type VerifyOrderInput struct {
	Notes string `json:"notas_verificacion" binding:"max=2000"`
}

// OrderRole selects which side of an order a user listing covers.
type OrderRole string

const (
	OrderRoleBuyer  OrderRole = "comprador"
	OrderRoleSeller OrderRole = "vendedor"
	OrderRoleAny    OrderRole = "todos"
)
