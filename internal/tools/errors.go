// Package tools holds the assistant's tool catalog, the authorization
// gate, and the executor that dispatches tool calls to the repositories.
package tools

import "errors"

// Authorization failures carry a distinct sentinel per class so callers
// can produce an actionable message. Everything else the executor raises
// is wrapped as a generic execution failure.
var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrRestaurantRequired = errors.New("restaurant account required")
	ErrOrganizerRequired  = errors.New("organizer role required")
	ErrRecycleManRequired = errors.New("recycle manager role required")
	ErrOwnership          = errors.New("resource belongs to another account")
	ErrUnknownTool        = errors.New("unknown tool")
)

// IsAuthError reports whether err is one of the authorization sentinels.
// Ownership violations count: they are authorization failures on a
// specific resource rather than on the tool itself.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthRequired) ||
		errors.Is(err, ErrRestaurantRequired) ||
		errors.Is(err, ErrOrganizerRequired) ||
		errors.Is(err, ErrRecycleManRequired) ||
		errors.Is(err, ErrOwnership)
}
