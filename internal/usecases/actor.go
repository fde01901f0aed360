package usecases

import (
	"github.com/google/uuid"

	"agro-market.backend/internal/domain/entities"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

func NewActor(userID uuid.UUID, role string) Actor {
	return Actor{UserID: userID, Admin: entities.UserRole(role) == entities.UserRoleAdmin}
}

func (a Actor) canSee(o *entities.Order) bool {
	return a.Admin || o.IsParty(a.UserID)
}
