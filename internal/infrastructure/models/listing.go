package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Listing struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Type        string          `gorm:"column:tipo;type:varchar(10);not null;index"`
	OwnerID     uuid.UUID       `gorm:"column:id_usuario;type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"column:id_producto;type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"column:cantidad;type:decimal(12,2);not null"`
	Unit        string          `gorm:"column:unidad;type:varchar(30);not null"`
	Price       decimal.Decimal `gorm:"column:precio;type:decimal(12,2);not null"`
	Description string          `gorm:"column:descripcion;type:text"`
	Location    null.String     `gorm:"column:ubicacion;type:varchar(255)"`
	Latitude    null.Float64    `gorm:"column:ubicacion_lat"`
	Longitude   null.Float64    `gorm:"column:ubicacion_lng"`
	Status      string          `gorm:"column:estado;type:varchar(20);not null;index"`
	Moderated   bool            `gorm:"column:moderado;not null"`
	ModeratedAt null.Time       `gorm:"column:fecha_moderacion"`
	Reports     int             `gorm:"column:reportes;not null"`
	SearchKey   string          `gorm:"column:search_key;type:text"`
	CreatedAt   time.Time       `gorm:"column:fecha_publicacion;index"`
	UpdatedAt   time.Time       `gorm:"column:fecha_actualizacion"`
}

func (Listing) TableName() string { return "anuncios" }
