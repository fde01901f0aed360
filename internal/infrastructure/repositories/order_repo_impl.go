package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	"agro-market.backend/internal/infrastructure/models"
)

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepositoryImpl {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, o *entities.Order) error {
	m := &models.Order{
		ID:                o.ID,
		BuyerID:           o.BuyerID,
		SellerID:          o.SellerID,
		ListingID:         o.ListingID,
		ListingType:       o.ListingType,
		Total:             o.Total,
		Status:            string(o.Status),
		ManuallyVerified:  o.ManuallyVerified,
		VerificationNotes: o.VerificationNotes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID honors WithLock on the context.
func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	var m models.Order
	if err := lockingDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return orderToEntity(&m), nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, status entities.OrderStatus, limit, offset int) ([]*entities.Order, int64, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		if status != "" {
			q = q.Where("estado = ?", string(status))
		}
		return q
	}, limit, offset)
}

func (r *OrderRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, role entities.OrderRole, limit, offset int) ([]*entities.Order, int64, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		switch role {
		case entities.OrderRoleBuyer:
			return q.Where("id_comprador = ?", userID)
		case entities.OrderRoleSeller:
			return q.Where("id_vendedor = ?", userID)
		default:
			return q.Where("id_comprador = ? OR id_vendedor = ?", userID, userID)
		}
	}, limit, offset)
}

func (r *OrderRepositoryImpl) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]*entities.Order, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&models.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Order
	if err := db.Scopes(scope).Order("fecha DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Order, 0, len(ms))
	for i := range ms {
		out = append(out, orderToEntity(&ms[i]))
	}
	return out, total, nil
}

// TransitionStatus is a compare-and-set on the estado column.
func (r *OrderRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.OrderStatus) (bool, error) {
	res := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("id = ? AND estado = ?", id, string(from)).
		Updates(map[string]interface{}{
			"estado":              string(to),
			"fecha_actualizacion": nowFunc(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepositoryImpl) MarkVerified(ctx context.Context, id uuid.UUID, notes string) error {
	res := GetDB(ctx, r.db).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"verificado_manualmente": true,
			"notas_verificacion":     null.NewString(notes, notes != ""),
			"fecha_actualizacion":    nowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func orderToEntity(m *models.Order) *entities.Order {
	return &entities.Order{
		ID:                m.ID,
		BuyerID:           m.BuyerID,
		SellerID:          m.SellerID,
		ListingID:         m.ListingID,
		ListingType:       m.ListingType,
		Total:             m.Total,
		Status:            entities.OrderStatus(m.Status),
		ManuallyVerified:  m.ManuallyVerified,
		VerificationNotes: m.VerificationNotes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
