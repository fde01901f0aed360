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
)

// PaymentIntentRepositoryImpl implements PaymentIntentRepository
type PaymentIntentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) *PaymentIntentRepositoryImpl {
	return &PaymentIntentRepositoryImpl{db: db}
}

func (r *PaymentIntentRepositoryImpl) Create(ctx context.Context, p *entities.PaymentIntent) error {
	m := &models.PaymentIntent{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Method:           string(p.Method),
		Code:             p.Code,
		QRData:           p.QRData,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		ExpiresAt:        p.ExpiresAt,
		PaidAt:           p.PaidAt,
		VerificationCode: p.VerificationCode,
		PaymentData:      p.PaymentData,
		UpdatedAt:        p.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID honors WithLock on the context.
func (r *PaymentIntentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentIntent, error) {
	var m models.PaymentIntent
	if err := lockingDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *PaymentIntentRepositoryImpl) GetByCode(ctx context.Context, code string) (*entities.PaymentIntent, error) {
	var m models.PaymentIntent
	if err := GetDB(ctx, r.db).Where("codigo_qr = ?", code).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *PaymentIntentRepositoryImpl) List(ctx context.Context, status entities.PaymentIntentStatus, limit, offset int) ([]*entities.PaymentIntent, int64, error) {
	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if status != "" {
			q = q.Where("estado = ?", string(status))
		}
		return q
	}

	var total int64
	if err := db.Model(&models.PaymentIntent{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.PaymentIntent
	if err := db.Scopes(scope).Order("fecha_creacion DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(ms), total, nil
}

func (r *PaymentIntentRepositoryImpl) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.PaymentIntent, error) {
	var ms []models.PaymentIntent
	if err := GetDB(ctx, r.db).Where("id_pedido = ?", orderID).Order("fecha_creacion DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *PaymentIntentRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentIntentStatus) error {
	res := GetDB(ctx, r.db).Model(&models.PaymentIntent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":              string(status),
			"fecha_actualizacion": nowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *PaymentIntentRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, paidAt time.Time, input entities.ConfirmPaymentInput) error {
	cols := map[string]interface{}{
		"estado":              string(entities.PaymentIntentStatusCompleted),
		"fecha_pago":          null.TimeFrom(paidAt),
		"codigo_verificacion": null.NewString(input.VerificationCode, input.VerificationCode != ""),
		"fecha_actualizacion": nowFunc(),
	}
	if len(input.PaymentData) > 0 {
		cols["datos_pago"] = input.PaymentData
	}
	res := GetDB(ctx, r.db).Model(&models.PaymentIntent{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ExpireIfDue is a single conditional UPDATE, so concurrent readers of the
// same intent cannot both perform the flip.
func (r *PaymentIntentRepositoryImpl) ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&models.PaymentIntent{}).
		Where("id = ? AND estado = ? AND fecha_expiracion < ?", id, string(entities.PaymentIntentStatusPending), now).
		Updates(map[string]interface{}{
			"estado":              string(entities.PaymentIntentStatusExpired),
			"fecha_actualizacion": nowFunc(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PaymentIntentRepositoryImpl) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&models.PaymentIntent{}).
		Where("estado = ? AND fecha_expiracion < ?", string(entities.PaymentIntentStatusPending), now).
		Updates(map[string]interface{}{
			"estado":              string(entities.PaymentIntentStatusExpired),
			"fecha_actualizacion": nowFunc(),
		})
	return res.RowsAffected, res.Error
}

func (r *PaymentIntentRepositoryImpl) toEntities(ms []models.PaymentIntent) []*entities.PaymentIntent {
	out := make([]*entities.PaymentIntent, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out
}

func (r *PaymentIntentRepositoryImpl) toEntity(m *models.PaymentIntent) *entities.PaymentIntent {
	return &entities.PaymentIntent{
		ID:               m.ID,
		OrderID:          m.OrderID,
		Amount:           m.Amount,
		Method:           entities.PaymentMethod(m.Method),
		Code:             m.Code,
		QRData:           m.QRData,
		Status:           entities.PaymentIntentStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		ExpiresAt:        m.ExpiresAt,
		PaidAt:           m.PaidAt,
		VerificationCode: m.VerificationCode,
		PaymentData:      m.PaymentData,
		UpdatedAt:        m.UpdatedAt,
	}
}
