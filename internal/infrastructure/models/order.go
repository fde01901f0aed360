package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID           uuid.UUID       `gorm:"column:id_comprador;type:uuid;not null;index"`
	SellerID          uuid.UUID       `gorm:"column:id_vendedor;type:uuid;not null;index"`
	ListingID         *uuid.UUID      `gorm:"column:id_anuncio;type:uuid"`
	ListingType       null.String     `gorm:"column:tipo_anuncio;type:varchar(10)"`
	Total             decimal.Decimal `gorm:"column:monto_total;type:decimal(12,2);not null"`
	Status            string          `gorm:"column:estado;type:varchar(20);not null;index"`
	ManuallyVerified  bool            `gorm:"column:verificado_manualmente;not null"`
	VerificationNotes null.String     `gorm:"column:notas_verificacion;type:text"`
	CreatedAt         time.Time       `gorm:"column:fecha"`
	UpdatedAt         time.Time       `gorm:"column:fecha_actualizacion"`
}

func (Order) TableName() string { return "pedidos" }
