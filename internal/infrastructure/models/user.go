package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type User struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Email               string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name                string       `gorm:"column:nombre;type:varchar(100);not null"`
	LastName            null.String  `gorm:"column:apellido;type:varchar(100)"`
	PasswordHash        string       `gorm:"column:password_hash;type:varchar(255);not null"`
	Phone               null.String  `gorm:"column:telefono;type:varchar(30)"`
	Address             null.String  `gorm:"column:direccion;type:varchar(255)"`
	Latitude            null.Float64 `gorm:"column:ubicacion_lat"`
	Longitude           null.Float64 `gorm:"column:ubicacion_lng"`
	Role                string       `gorm:"column:rol;type:varchar(20);not null"`
	Verified            bool         `gorm:"column:verificado;not null"`
	Active              bool         `gorm:"column:estado;not null"`
	ListingsToday       int          `gorm:"column:anuncios_publicados_hoy;not null"`
	DailyListingLimit   int          `gorm:"column:limite_anuncios_diarios;not null"`
	LastListingAt       null.Time    `gorm:"column:ultima_publicacion"`
	ResetToken          null.String  `gorm:"column:reset_password_token;type:varchar(100);index"`
	ResetTokenExpiresAt null.Time    `gorm:"column:reset_password_expires"`
	CreatedAt           time.Time    `gorm:"column:fecha_registro"`
	UpdatedAt           time.Time    `gorm:"column:fecha_actualizacion"`
}

func (User) TableName() string { return "usuarios" }
