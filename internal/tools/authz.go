package tools

import "github.com/greenbasket/greenbasket/internal/domain"

// Authorize decides whether session may invoke the named tool. It is a
// pure function: no side effects, no I/O. Unknown names are rejected so
// a tool call is only ever executed if it exists in the catalog.
func Authorize(name string, session domain.SessionContext) error {
	spec, ok := Lookup(name)
	if !ok {
		return ErrUnknownTool
	}

	switch spec.Auth {
	case AuthNone:
		return nil
	case AuthCustomer:
		if session.UserID == "" {
			return ErrAuthRequired
		}
	case AuthRestaurant:
		if session.RestaurantID == "" {
			return ErrRestaurantRequired
		}
	case AuthOrganizer:
		if session.UserID == "" || session.Role != domain.RoleOrganizer {
			return ErrOrganizerRequired
		}
	case AuthRecycleMan:
		if session.UserID == "" || session.Role != domain.RoleRecycleMan {
			return ErrRecycleManRequired
		}
	}
	return nil
}
