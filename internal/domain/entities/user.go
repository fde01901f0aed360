package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleBuyer  UserRole = "comprador"
	UserRoleSeller UserRole = "vendedor"
	UserRoleAdmin  UserRole = "administrador"
)

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleBuyer, UserRoleSeller, UserRoleAdmin:
		return true
	}
	return false
}

// DefaultDailyListingLimit applies to accounts without an explicit limit.
const DefaultDailyListingLimit = 5

// User is a marketplace account. Accounts are never hard-deleted; Active
// false means disabled.
type User struct {
	ID                  uuid.UUID    `json:"id"`
	Email               string       `json:"email"`
	Name                string       `json:"nombre"`
	LastName            null.String  `json:"apellido"`
	PasswordHash        string       `json:"-"`
	Phone               null.String  `json:"telefono"`
	Address             null.String  `json:"direccion"`
	Latitude            null.Float64 `json:"ubicacion_lat"`
	Longitude           null.Float64 `json:"ubicacion_lng"`
	Role                UserRole     `json:"rol"`
	Verified            bool         `json:"verificado"`
	Active              bool         `json:"estado"`
	ListingsToday       int          `json:"anuncios_publicados_hoy"`
	DailyListingLimit   int          `json:"limite_anuncios_diarios"`
	LastListingAt       null.Time    `json:"ultima_publicacion"`
	ResetToken          null.String  `json:"-"`
	ResetTokenExpiresAt null.Time    `json:"-"`
	CreatedAt           time.Time    `json:"fecha_registro"`
	UpdatedAt           time.Time    `json:"fecha_actualizacion"`
}

// ListingsPublishedOn returns the posting counter as seen on now's calendar
// day. A counter last touched on an earlier day counts as zero.
func (u *User) ListingsPublishedOn(now time.Time) int {
	if !u.LastListingAt.Valid || !SameDay(u.LastListingAt.Time, now) {
		return 0
	}
	return u.ListingsToday
}

// CanPublish reports whether another listing fits in today's quota.
func (u *User) CanPublish(now time.Time) bool {
	limit := u.DailyListingLimit
	if limit <= 0 {
		limit = DefaultDailyListingLimit
	}
	return u.ListingsPublishedOn(now) < limit
}

// SameDay compares calendar dates in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

type RegisterInput struct {
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"nombre" binding:"required,min=2,max=100"`
	LastName string   `json:"apellido" binding:"omitempty,max=100"`
	Password string   `json:"password" binding:"required,min=8"`
	Phone    string   `json:"telefono" binding:"omitempty,max=30"`
	Address  string   `json:"direccion" binding:"omitempty,max=255"`
	Role     UserRole `json:"rol"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"usuario"`
}

type UpdateProfileInput struct {
	Name      *string  `json:"nombre" binding:"omitempty,min=2,max=100"`
	LastName  *string  `json:"apellido" binding:"omitempty,max=100"`
	Phone     *string  `json:"telefono" binding:"omitempty,max=30"`
	Address   *string  `json:"direccion" binding:"omitempty,max=255"`
	Latitude  *float64 `json:"ubicacion_lat" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"ubicacion_lng" binding:"omitempty,min=-180,max=180"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"password_actual" binding:"required"`
	NewPassword     string `json:"password_nuevo" binding:"required,min=8"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetTokenInput struct {
	Token string `json:"token" binding:"required"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"password" binding:"required,min=8"`
}

// UserFilter narrows the admin account listing. Zero values match all.
type UserFilter struct {
	Role   UserRole
	Active *bool
}
