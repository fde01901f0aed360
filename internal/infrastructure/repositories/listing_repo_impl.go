package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/infrastructure/models"
	"agro-market.backend/pkg/textutil"
)

type ListingRepositoryImpl struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepositoryImpl {
	return &ListingRepositoryImpl{db: db}
}

func (r *ListingRepositoryImpl) Create(ctx context.Context, l *entities.Listing) error {
	m := &models.Listing{
		ID:          l.ID,
		Type:        string(l.Type),
		OwnerID:     l.OwnerID,
		ProductID:   l.ProductID,
		Quantity:    l.Quantity,
		Unit:        l.Unit,
		Price:       l.Price,
		Description: l.Description,
		Location:    l.Location,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Status:      string(l.Status),
		Moderated:   l.Moderated,
		ModeratedAt: l.ModeratedAt,
		Reports:     l.Reports,
		SearchKey:   textutil.SearchKey(l.Description, l.Location.String),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *ListingRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	var m models.Listing
	if err := lockingDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return listingToEntity(&m), nil
}

// List returns listings newest first. The search term matches the listing
// text and the product name, ignoring case and accents.
func (r *ListingRepositoryImpl) List(ctx context.Context, filter entities.ListingFilter, limit, offset int) ([]*entities.Listing, int64, error) {
	db := GetDB(ctx, r.db)
	status := filter.Status
	if status == "" {
		status = entities.ListingStatusActive
	}
	scope := func(q *gorm.DB) *gorm.DB {
		if !filter.AnyStatus || filter.Status != "" {
			q = q.Where("estado = ?", string(status))
		}
		if filter.Type != "" {
			q = q.Where("tipo = ?", string(filter.Type))
		}
		if filter.ProductID != nil {
			q = q.Where("id_producto = ?", *filter.ProductID)
		}
		if filter.OwnerID != nil {
			q = q.Where("id_usuario = ?", *filter.OwnerID)
		}
		if s := textutil.Fold(filter.Search); s != "" {
			like := "%" + s + "%"
			q = q.Where("search_key LIKE ? OR id_producto IN (?)", like,
				db.Model(&models.Product{}).Select("id").Where("search_key LIKE ?", like))
		}
		if filter.MinPrice != nil {
			q = q.Where("precio >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			q = q.Where("precio <= ?", *filter.MaxPrice)
		}
		return q
	}

	var total int64
	if err := db.Model(&models.Listing{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Listing
	if err := db.Scopes(scope).Order("fecha_publicacion DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Listing, 0, len(ms))
	for i := range ms {
		out = append(out, listingToEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *ListingRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ListingStatus) error {
	return r.update(ctx, id, map[string]interface{}{"estado": string(status)})
}

func (r *ListingRepositoryImpl) IncrementReports(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, map[string]interface{}{"reportes": gorm.Expr("reportes + 1")})
}

func (r *ListingRepositoryImpl) MarkModerated(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"moderado":         true,
		"fecha_moderacion": null.TimeFrom(at),
	})
}

func (r *ListingRepositoryImpl) update(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	cols["fecha_actualizacion"] = nowFunc()
	res := GetDB(ctx, r.db).Model(&models.Listing{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func listingToEntity(m *models.Listing) *entities.Listing {
	return &entities.Listing{
		ID:          m.ID,
		Type:        entities.ListingType(m.Type),
		OwnerID:     m.OwnerID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Price:       m.Price,
		Description: m.Description,
		Location:    m.Location,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Status:      entities.ListingStatus(m.Status),
		Moderated:   m.Moderated,
		ModeratedAt: m.ModeratedAt,
		Reports:     m.Reports,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
