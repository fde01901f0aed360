package entities

import (
	"time"

	"github.com/google/uuid"
)

const MaxCommentLength = 1000

// Comment is free text a user leaves on a product, a listing or both.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"id_usuario"`
	ProductID  *uuid.UUID `json:"id_producto,omitempty"`
	ListingID  *uuid.UUID `json:"id_anuncio_venta,omitempty"`
	Text       string     `json:"comentario"`
	AuthorName string     `json:"nombre_usuario,omitempty"`
	CreatedAt  time.Time  `json:"fecha"`
	UpdatedAt  time.Time  `json:"fecha_actualizacion"`
}

type CreateCommentInput struct {
	ProductID *uuid.UUID `json:"id_producto"`
	ListingID *uuid.UUID `json:"id_anuncio_venta"`
	Text      string     `json:"comentario" binding:"required,max=1000"`
}

type UpdateCommentInput struct {
	Text string `json:"comentario" binding:"required,max=1000"`
}

// CommentFilter narrows a comment listing. Zero value matches every comment.
type CommentFilter struct {
	ProductID *uuid.UUID
	ListingID *uuid.UUID
	UserID    *uuid.UUID
}

type CommentStats struct {
	Total      int64 `json:"total_comentarios"`
	OnProducts int64 `json:"comentarios_productos"`
	OnListings int64 `json:"comentarios_anuncios"`
	LastMonth  int64 `json:"comentarios_ultimo_mes"`
}
