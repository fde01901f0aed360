package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Membership struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"column:nombre;type:varchar(100);not null"`
	Description  string          `gorm:"column:descripcion;type:text"`
	Price        decimal.Decimal `gorm:"column:precio;type:decimal(10,2);not null"`
	DurationDays int             `gorm:"column:duracion_dias;not null"`
	Features     datatypes.JSON  `gorm:"column:caracteristicas"`
	Active       bool            `gorm:"column:activo;not null"`
	CreatedAt    time.Time       `gorm:"column:fecha_creacion"`
	UpdatedAt    time.Time       `gorm:"column:fecha_actualizacion"`
	DeletedAt    gorm.DeletedAt  `gorm:"column:fecha_eliminacion;index"`
}

func (Membership) TableName() string { return "membresias" }

type MembershipAssignment struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID   `gorm:"column:id_usuario;type:uuid;not null;index:idx_usuario_membresia_activa,priority:1"`
	MembershipID uuid.UUID   `gorm:"column:id_membresia;type:uuid;not null;index"`
	Membership   *Membership `gorm:"foreignKey:MembershipID"`
	StartsAt     time.Time   `gorm:"column:fecha_inicio;not null"`
	ExpiresAt    time.Time   `gorm:"column:fecha_expiracion;not null"`
	Active       bool        `gorm:"column:activa;not null;index:idx_usuario_membresia_activa,priority:2"`
	CreatedAt    time.Time   `gorm:"column:fecha_creacion"`
	UpdatedAt    time.Time   `gorm:"column:fecha_actualizacion"`
}

func (MembershipAssignment) TableName() string { return "usuario_membresias" }
