package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:id_usuario;type:uuid;not null;index"`
	ProductID *uuid.UUID `gorm:"column:id_producto;type:uuid;index"`
	ListingID *uuid.UUID `gorm:"column:id_anuncio_venta;type:uuid;index"`
	Text      string     `gorm:"column:comentario;type:text;not null"`
	CreatedAt time.Time  `gorm:"column:fecha;index"`
	UpdatedAt time.Time  `gorm:"column:fecha_actualizacion"`
}

func (Comment) TableName() string { return "comentarios" }
