package service

import (
	"fmt"

	"library-backend/internal/domain"
)

// Role checks live here so every service applies the same mapping instead of
// inspecting persisted user records.

func requireLibrarian(actor domain.Actor) error {
	if !actor.IsLibrarian() {
		return fmt.Errorf("%w: librarian role required", domain.ErrForbidden)
	}
	return nil
}

func requireSelfOrLibrarian(actor domain.Actor, userID int32) error {
	if actor.Owns(userID) || actor.IsLibrarian() {
		return nil
	}
	return fmt.Errorf("%w: not allowed to act on user %d", domain.ErrForbidden, userID)
}
