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

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		LastName:          user.LastName,
		PasswordHash:      user.PasswordHash,
		Phone:             user.Phone,
		Address:           user.Address,
		Latitude:          user.Latitude,
		Longitude:         user.Longitude,
		Role:              string(user.Role),
		Verified:          user.Verified,
		Active:            user.Active,
		ListingsToday:     user.ListingsToday,
		DailyListingLimit: user.DailyListingLimit,
		LastListingAt:     user.LastListingAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID honors WithLock on the context.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := lockingDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("reset_password_token = ?", token).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

// Update writes the mutable profile, credential and reset-token columns.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	res := GetDB(ctx, r.db).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"nombre":                 user.Name,
			"apellido":               user.LastName,
			"telefono":               user.Phone,
			"direccion":              user.Address,
			"ubicacion_lat":          user.Latitude,
			"ubicacion_lng":          user.Longitude,
			"password_hash":          user.PasswordHash,
			"rol":                    string(user.Role),
			"reset_password_token":   user.ResetToken,
			"reset_password_expires": user.ResetTokenExpiresAt,
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

func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"estado": active})
}

func (r *UserRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"verificado": true})
}

func (r *UserRepository) SetListingCounter(ctx context.Context, id uuid.UUID, count int, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"anuncios_publicados_hoy": count,
		"ultima_publicacion":      null.TimeFrom(at),
	})
}

// GetNames resolves display names for a set of users.
func (r *UserRepository) GetNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.User
	if err := GetDB(ctx, r.db).Select("id", "nombre").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

// List pages accounts newest first.
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter, limit, offset int) ([]*entities.User, int64, error) {
	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Role != "" {
			q = q.Where("rol = ?", string(filter.Role))
		}
		if filter.Active != nil {
			q = q.Where("estado = ?", *filter.Active)
		}
		return q
	}

	var total int64
	if err := db.Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.User
	if err := db.Scopes(scope).Order("fecha_registro DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.User, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	cols["fecha_actualizacion"] = nowFunc()
	res := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                  m.ID,
		Email:               m.Email,
		Name:                m.Name,
		LastName:            m.LastName,
		PasswordHash:        m.PasswordHash,
		Phone:               m.Phone,
		Address:             m.Address,
		Latitude:            m.Latitude,
		Longitude:           m.Longitude,
		Role:                entities.UserRole(m.Role),
		Verified:            m.Verified,
		Active:              m.Active,
		ListingsToday:       m.ListingsToday,
		DailyListingLimit:   m.DailyListingLimit,
		LastListingAt:       m.LastListingAt,
		ResetToken:          m.ResetToken,
		ResetTokenExpiresAt: m.ResetTokenExpiresAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
