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

type MembershipRepositoryImpl struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepositoryImpl {
	return &MembershipRepositoryImpl{db: db}
}

func (r *MembershipRepositoryImpl) Create(ctx context.Context, m *entities.Membership) error {
	return GetDB(ctx, r.db).Create(&models.Membership{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		DurationDays: m.DurationDays,
		Features:     m.Features,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}).Error
}

func (r *MembershipRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error) {
	var m models.Membership
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return membershipToEntity(&m), nil
}

// List orders the catalog by price. A nil active lists every entry.
func (r *MembershipRepositoryImpl) List(ctx context.Context, active *bool) ([]*entities.Membership, error) {
	q := GetDB(ctx, r.db)
	if active != nil {
		q = q.Where("activo = ?", *active)
	}
	var ms []models.Membership
	if err := q.Order("precio ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Membership, 0, len(ms))
	for i := range ms {
		out = append(out, membershipToEntity(&ms[i]))
	}
	return out, nil
}

func (r *MembershipRepositoryImpl) Update(ctx context.Context, m *entities.Membership) error {
	res := GetDB(ctx, r.db).Model(&models.Membership{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"nombre":              m.Name,
			"descripcion":         m.Description,
			"precio":              m.Price,
			"duracion_dias":       m.DurationDays,
			"caracteristicas":     m.Features,
			"activo":              m.Active,
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

// Delete retires the entry; assignment history keeps pointing at it.
func (r *MembershipRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *MembershipRepositoryImpl) Count(ctx context.Context, active *bool) (int64, error) {
	q := GetDB(ctx, r.db).Model(&models.Membership{})
	if active != nil {
		q = q.Where("activo = ?", *active)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func membershipToEntity(m *models.Membership) *entities.Membership {
	return &entities.Membership{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		DurationDays: m.DurationDays,
		Features:     m.Features,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type MembershipAssignmentRepositoryImpl struct {
	db *gorm.DB
}

func NewMembershipAssignmentRepository(db *gorm.DB) *MembershipAssignmentRepositoryImpl {
	return &MembershipAssignmentRepositoryImpl{db: db}
}

func (r *MembershipAssignmentRepositoryImpl) Create(ctx context.Context, a *entities.MembershipAssignment) error {
	return GetDB(ctx, r.db).Omit("Membership").Create(&models.MembershipAssignment{
		ID:           a.ID,
		UserID:       a.UserID,
		MembershipID: a.MembershipID,
		StartsAt:     a.StartsAt,
		ExpiresAt:    a.ExpiresAt,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}).Error
}

// GetByID honors WithLock on the context.
func (r *MembershipAssignmentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.MembershipAssignment, error) {
	var m models.MembershipAssignment
	if err := lockingDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.withMembership(ctx, &m)
}

func (r *MembershipAssignmentRepositoryImpl) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entities.MembershipAssignment, error) {
	var m models.MembershipAssignment
	err := GetDB(ctx, r.db).
		Where("id_usuario = ? AND activa = ?", userID, true).
		Order("fecha_inicio DESC").
		First(&m).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return r.withMembership(ctx, &m)
}

func (r *MembershipAssignmentRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.MembershipAssignment, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&models.MembershipAssignment{}).Where("id_usuario = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.MembershipAssignment
	if err := db.Preload("Membership", func(q *gorm.DB) *gorm.DB { return q.Unscoped() }).
		Where("id_usuario = ?", userID).
		Order("fecha_inicio DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.MembershipAssignment, 0, len(ms))
	for i := range ms {
		out = append(out, assignmentToEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *MembershipAssignmentRepositoryImpl) DeactivateForUser(ctx context.Context, userID uuid.UUID, keepID *uuid.UUID) (int64, error) {
	q := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).
		Where("id_usuario = ? AND activa = ?", userID, true)
	if keepID != nil {
		q = q.Where("id <> ?", *keepID)
	}
	res := q.Updates(map[string]interface{}{"activa": false, "fecha_actualizacion": nowFunc()})
	return res.RowsAffected, res.Error
}

func (r *MembershipAssignmentRepositoryImpl) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"activa": false, "fecha_actualizacion": nowFunc()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *MembershipAssignmentRepositoryImpl) Reactivate(ctx context.Context, id uuid.UUID, startsAt, expiresAt time.Time) error {
	res := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"activa":              true,
			"fecha_inicio":        startsAt,
			"fecha_expiracion":    expiresAt,
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

// ExpireIfDue flips one active, overdue assignment in a single UPDATE.
func (r *MembershipAssignmentRepositoryImpl) ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).
		Where("id = ? AND activa = ? AND fecha_expiracion < ?", id, true, now).
		Updates(map[string]interface{}{"activa": false, "fecha_actualizacion": nowFunc()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *MembershipAssignmentRepositoryImpl) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).
		Where("activa = ? AND fecha_expiracion < ?", true, now).
		Updates(map[string]interface{}{"activa": false, "fecha_actualizacion": nowFunc()})
	return res.RowsAffected, res.Error
}

func (r *MembershipAssignmentRepositoryImpl) CountActiveByMembership(ctx context.Context, membershipID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).
		Where("id_membresia = ? AND activa = ?", membershipID, true).Count(&n).Error
	return n, err
}

func (r *MembershipAssignmentRepositoryImpl) CountUsersWithActive(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&models.MembershipAssignment{}).
		Where("activa = ?", true).Distinct("id_usuario").Count(&n).Error
	return n, err
}

type usageRow struct {
	MembershipID uuid.UUID
	Name         string
	ActiveUsers  int64
}

func (r *MembershipAssignmentRepositoryImpl) TopMemberships(ctx context.Context, limit int) ([]entities.MembershipUsage, error) {
	var rows []usageRow
	err := GetDB(ctx, r.db).Table("usuario_membresias AS um").
		Select("um.id_membresia AS membership_id, m.nombre AS name, COUNT(*) AS active_users").
		Joins("JOIN membresias m ON m.id = um.id_membresia").
		Where("um.activa = ? AND m.fecha_eliminacion IS NULL", true).
		Group("um.id_membresia, m.nombre").
		Order("active_users DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entities.MembershipUsage, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.MembershipUsage{MembershipID: row.MembershipID, Name: row.Name, ActiveUsers: row.ActiveUsers})
	}
	return out, nil
}

func (r *MembershipAssignmentRepositoryImpl) withMembership(ctx context.Context, m *models.MembershipAssignment) (*entities.MembershipAssignment, error) {
	a := assignmentToEntity(m)
	var mm models.Membership
	// history may point at a retired catalog entry
	if err := GetDB(ctx, r.db).Unscoped().Where("id = ?", m.MembershipID).First(&mm).Error; err != nil {
		return nil, notFoundOr(err)
	}
	a.Membership = membershipToEntity(&mm)
	return a, nil
}

func assignmentToEntity(m *models.MembershipAssignment) *entities.MembershipAssignment {
	a := &entities.MembershipAssignment{
		ID:           m.ID,
		UserID:       m.UserID,
		MembershipID: m.MembershipID,
		StartsAt:     m.StartsAt,
		ExpiresAt:    m.ExpiresAt,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Membership != nil {
		a.Membership = membershipToEntity(m.Membership)
	}
	return a
}
