package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/infrastructure/models"
)

type CommentRepositoryImpl struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{db: db}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, c *entities.Comment) error {
	return GetDB(ctx, r.db).Create(&models.Comment{
		ID:        c.ID,
		UserID:    c.UserID,
		ProductID: c.ProductID,
		ListingID: c.ListingID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}).Error
}

func (r *CommentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	var m models.Comment
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return commentToEntity(&m), nil
}

func (r *CommentRepositoryImpl) List(ctx context.Context, filter entities.CommentFilter, limit, offset int) ([]*entities.Comment, int64, error) {
	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.ProductID != nil {
			q = q.Where("id_producto = ?", *filter.ProductID)
		}
		if filter.ListingID != nil {
			q = q.Where("id_anuncio_venta = ?", *filter.ListingID)
		}
		if filter.UserID != nil {
			q = q.Where("id_usuario = ?", *filter.UserID)
		}
		return q
	}

	var total int64
	if err := db.Model(&models.Comment{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Comment
	if err := db.Scopes(scope).Order("fecha DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Comment, 0, len(ms))
	for i := range ms {
		out = append(out, commentToEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *CommentRepositoryImpl) UpdateText(ctx context.Context, id uuid.UUID, text string, at time.Time) error {
	res := GetDB(ctx, r.db).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"comentario":          text,
			"fecha_actualizacion": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CommentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

type commentStatsRow struct {
	Total      int64
	OnProducts int64
	OnListings int64
	LastMonth  int64
}

// Stats counts every comment, those attached to a product or a listing, and
// those written at or after since.
func (r *CommentRepositoryImpl) Stats(ctx context.Context, since time.Time) (entities.CommentStats, error) {
	var row commentStatsRow
	err := GetDB(ctx, r.db).Model(&models.Comment{}).
		Select(`COUNT(*) AS total,
			COUNT(id_producto) AS on_products,
			COUNT(id_anuncio_venta) AS on_listings,
			COALESCE(SUM(CASE WHEN fecha >= ? THEN 1 ELSE 0 END), 0) AS last_month`, since).
		Scan(&row).Error
	if err != nil {
		return entities.CommentStats{}, err
	}
	return entities.CommentStats{
		Total:      row.Total,
		OnProducts: row.OnProducts,
		OnListings: row.OnListings,
		LastMonth:  row.LastMonth,
	}, nil
}

func commentToEntity(m *models.Comment) *entities.Comment {
	return &entities.Comment{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		ListingID: m.ListingID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
