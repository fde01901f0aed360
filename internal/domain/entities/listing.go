package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ListingType distinguishes sell offers from buy requests.
type ListingType string

const (
	ListingTypeSell ListingType = "venta"
	ListingTypeBuy  ListingType = "compra"
)

func (t ListingType) IsValid() bool {
	return t == ListingTypeSell || t == ListingTypeBuy
}

type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "activo"
	ListingStatusSold      ListingStatus = "vendido"
	ListingStatusPaused    ListingStatus = "pausado"
	ListingStatusCancelled ListingStatus = "cancelado"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusPaused, ListingStatusCancelled:
		return true
	}
	return false
}

// Listing is a buy or sell offer for one product, owned by one user.
type Listing struct {
	ID          uuid.UUID       `json:"id"`
	Type        ListingType     `json:"tipo"`
	OwnerID     uuid.UUID       `json:"id_usuario"`
	ProductID   uuid.UUID       `json:"id_producto"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Unit        string          `json:"unidad"`
	Price       decimal.Decimal `json:"precio"`
	Description string          `json:"descripcion"`
	Location    null.String     `json:"ubicacion"`
	Latitude    null.Float64    `json:"ubicacion_lat"`
	Longitude   null.Float64    `json:"ubicacion_lng"`
	Status      ListingStatus   `json:"estado"`
	Moderated   bool            `json:"moderado"`
	ModeratedAt null.Time       `json:"fecha_moderacion"`
	Reports     int             `json:"reportes"`
	CreatedAt   time.Time       `json:"fecha_publicacion"`
	UpdatedAt   time.Time       `json:"fecha_actualizacion"`
}

type CreateListingInput struct {
	Type        ListingType     `json:"tipo" binding:"required"`
	ProductID   uuid.UUID       `json:"id_producto" binding:"required"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Unit        string          `json:"unidad" binding:"required,max=30"`
	Price       decimal.Decimal `json:"precio"`
	Description string          `json:"descripcion" binding:"max=2000"`
	Location    string          `json:"ubicacion" binding:"omitempty,max=255"`
	Latitude    *float64        `json:"ubicacion_lat" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64        `json:"ubicacion_lng" binding:"omitempty,min=-180,max=180"`
}

type UpdateListingStatusInput struct {
	Status ListingStatus `json:"estado" binding:"required"`
}

// ListingFilter narrows List queries. A zero Status means activo unless
// AnyStatus is set.
type ListingFilter struct {
	Type      ListingType
	Status    ListingStatus
	AnyStatus bool
	ProductID *uuid.UUID
	OwnerID   *uuid.UUID
	Search    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
}
