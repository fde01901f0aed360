package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Category struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name        string      `gorm:"column:nombre;type:varchar(100);uniqueIndex;not null"`
	Description null.String `gorm:"column:descripcion;type:text"`
	CreatedAt   time.Time   `gorm:"column:fecha_creacion"`
}

func (Category) TableName() string { return "categorias" }

type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name           string          `gorm:"column:nombre;type:varchar(150);not null"`
	Description    null.String     `gorm:"column:descripcion;type:text"`
	Unit           string          `gorm:"column:unidad_medida;type:varchar(30);not null"`
	ReferencePrice decimal.Decimal `gorm:"column:precio_referencial;type:decimal(12,2);not null"`
	ImageURL       null.String     `gorm:"column:imagen_url;type:text"`
	Active         bool            `gorm:"column:activo;not null"`
	SearchKey      string          `gorm:"column:search_key;type:text;index"`
	Categories     []Category      `gorm:"many2many:producto_categorias;joinForeignKey:id_producto;joinReferences:id_categoria"`
	CreatedAt      time.Time       `gorm:"column:fecha_creacion"`
	UpdatedAt      time.Time       `gorm:"column:fecha_actualizacion"`
}

func (Product) TableName() string { return "productos" }

type Favorite struct {
	UserID    uuid.UUID `gorm:"column:id_usuario;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:id_producto;type:uuid;primaryKey"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:fecha_creacion"`
}

func (Favorite) TableName() string { return "favoritos" }
