package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type Rating struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	RaterID   uuid.UUID   `gorm:"column:id_usuario_que_califica;type:uuid;not null;uniqueIndex:idx_calificacion_unica,priority:1"`
	RateeID   uuid.UUID   `gorm:"column:id_usuario_valorado;type:uuid;not null;index;uniqueIndex:idx_calificacion_unica,priority:2"`
	OrderID   uuid.UUID   `gorm:"column:id_pedido;type:uuid;not null;uniqueIndex:idx_calificacion_unica,priority:3"`
	Score     int         `gorm:"column:calificacion;not null"`
	Comment   null.String `gorm:"column:comentario;type:text"`
	CreatedAt time.Time   `gorm:"column:fecha"`
	UpdatedAt time.Time   `gorm:"column:fecha_actualizacion"`
}

func (Rating) TableName() string { return "calificaciones" }
