package entities

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Membership is a subscription tier in the catalog.
type Membership struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion"`
	Price        decimal.Decimal `json:"precio"`
	DurationDays int             `json:"duracion_dias"`
	Features     datatypes.JSON  `json:"caracteristicas"`
	Active       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"fecha_creacion"`
	UpdatedAt    time.Time       `json:"fecha_actualizacion"`
}

// ExpiryFrom returns start plus the tier duration.
func (m *Membership) ExpiryFrom(start time.Time) time.Time {
	return start.AddDate(0, 0, m.DurationDays)
}

// MembershipAssignment records which tier a user holds and until when.
// At most one assignment per user is active.
type MembershipAssignment struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"id_usuario"`
	MembershipID uuid.UUID   `json:"id_membresia"`
	Membership   *Membership `json:"membresia,omitempty"`
	StartsAt     time.Time   `json:"fecha_inicio"`
	ExpiresAt    time.Time   `json:"fecha_expiracion"`
	Active       bool        `json:"activa"`
	CreatedAt    time.Time   `json:"fecha_creacion"`
	UpdatedAt    time.Time   `json:"fecha_actualizacion"`
}

// IsExpired is true for an active assignment whose expiry has passed.
func (a *MembershipAssignment) IsExpired(now time.Time) bool {
	return a.Active && now.After(a.ExpiresAt)
}

// DaysRemaining is ceil((expiry - now) / 24h), floored at zero.
func (a *MembershipAssignment) DaysRemaining(now time.Time) int {
	left := a.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

type ActiveMembership struct {
	Assignment    *MembershipAssignment `json:"asignacion"`
	DaysRemaining int                   `json:"dias_restantes"`
}

type CreateMembershipInput struct {
	Name         string          `json:"nombre" binding:"required,min=2,max=100"`
	Description  string          `json:"descripcion" binding:"max=2000"`
	Price        decimal.Decimal `json:"precio"`
	DurationDays int             `json:"duracion_dias" binding:"required,min=1"`
	Features     datatypes.JSON  `json:"caracteristicas"`
	Active       *bool           `json:"activo"`
}

type UpdateMembershipInput struct {
	Name         *string          `json:"nombre" binding:"omitempty,min=2,max=100"`
	Description  *string          `json:"descripcion" binding:"omitempty,max=2000"`
	Price        *decimal.Decimal `json:"precio"`
	DurationDays *int             `json:"duracion_dias" binding:"omitempty,min=1"`
	Features     datatypes.JSON   `json:"caracteristicas"`
	Active       *bool            `json:"activo"`
}

// AssignMembershipInput targets the caller unless an administrador names
// another user.
type AssignMembershipInput struct {
	MembershipID uuid.UUID  `json:"id_membresia" binding:"required"`
	UserID       *uuid.UUID `json:"id_usuario,omitempty"`
}

type MembershipUsage struct {
	MembershipID uuid.UUID `json:"id_membresia"`
	Name         string    `json:"nombre"`
	ActiveUsers  int64     `json:"usuarios_activos"`
}

type MembershipStats struct {
	TotalMemberships  int64             `json:"total_membresias"`
	ActiveMemberships int64             `json:"membresias_activas"`
	UsersWithActive   int64             `json:"usuarios_con_membresia"`
	Top               []MembershipUsage `json:"mas_populares"`
}
