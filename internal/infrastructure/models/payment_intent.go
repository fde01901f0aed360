package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
)

type PaymentIntent struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:id_pedido;type:uuid;not null;index"`
	Amount           decimal.Decimal `gorm:"column:monto;type:decimal(12,2);not null"`
	Method           string          `gorm:"column:metodo_pago;type:varchar(30);not null"`
	Code             string          `gorm:"column:codigo_qr;type:varchar(64);uniqueIndex;not null"`
	QRData           datatypes.JSON  `gorm:"column:datos_qr"`
	Status           string          `gorm:"column:estado;type:varchar(20);not null;index:idx_pagos_qr_estado_expiracion,priority:1"`
	CreatedAt        time.Time       `gorm:"column:fecha_creacion"`
	ExpiresAt        time.Time       `gorm:"column:fecha_expiracion;not null;index:idx_pagos_qr_estado_expiracion,priority:2"`
	PaidAt           null.Time       `gorm:"column:fecha_pago"`
	VerificationCode null.String     `gorm:"column:codigo_verificacion;type:varchar(100)"`
	PaymentData      datatypes.JSON  `gorm:"column:datos_pago"`
	UpdatedAt        time.Time       `gorm:"column:fecha_actualizacion"`
}

func (PaymentIntent) TableName() string { return "pagos_qr" }
