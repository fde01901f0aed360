package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Category struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"nombre"`
	Description null.String `json:"descripcion"`
	CreatedAt   time.Time   `json:"fecha_creacion"`
}

// Product is a catalog entry that listings refer to.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"nombre"`
	Description    null.String     `json:"descripcion"`
	Unit           string          `json:"unidad_medida"`
	ReferencePrice decimal.Decimal `json:"precio_referencial"`
	ImageURL       null.String     `json:"imagen_url"`
	Active         bool            `json:"activo"`
	Categories     []Category      `json:"categorias"`
	CreatedAt      time.Time       `json:"fecha_creacion"`
	UpdatedAt      time.Time       `json:"fecha_actualizacion"`
}

type CreateCategoryInput struct {
	Name        string `json:"nombre" binding:"required,min=2,max=100"`
	Description string `json:"descripcion" binding:"omitempty,max=500"`
}

type CreateProductInput struct {
	Name           string          `json:"nombre" binding:"required,min=2,max=150"`
	Description    string          `json:"descripcion"`
	Unit           string          `json:"unidad_medida" binding:"required,max=30"`
	ReferencePrice decimal.Decimal `json:"precio_referencial"`
	ImageURL       string          `json:"imagen_url" binding:"omitempty,url"`
	CategoryIDs    []uuid.UUID     `json:"categorias"`
}

type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
}

// Favorite marks a product a user wants to follow.
type Favorite struct {
	UserID    uuid.UUID `json:"id_usuario"`
	ProductID uuid.UUID `json:"id_producto"`
	Product   *Product  `json:"producto,omitempty"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// UpdateProductInput changes only the fields that are present.
type UpdateProductInput struct {
	Name           *string          `json:"nombre" binding:"omitempty,min=2,max=150"`
	Description    *string          `json:"descripcion"`
	Unit           *string          `json:"unidad_medida" binding:"omitempty,max=30"`
	ReferencePrice *decimal.Decimal `json:"precio_referencial"`
	ImageURL       *string          `json:"imagen_url" binding:"omitempty,url"`
}

// FavoriteCheck answers whether a product is among the user's favorites.
type FavoriteCheck struct {
	ProductID  uuid.UUID `json:"id_producto"`
	IsFavorite bool      `json:"es_favorito"`
}

// PopularProduct is a product ranked by how many users marked it favorite.
type PopularProduct struct {
	Product        *Product `json:"producto"`
	TotalFavorites int64    `json:"total_favoritos"`
}

type FavoriteStats struct {
	Total     int64 `json:"total_favoritos"`
	LastMonth int64 `json:"favoritos_ultimo_mes"`
}
