package domain

// SessionContext is the caller's identity snapshot for one assistant request.
// At most one of UserID/RestaurantID is set; Role further restricts which
// tools are reachable. Immutable for the lifetime of a request.
type SessionContext struct {
	UserID       string `json:"userId,omitempty"`
	RestaurantID string `json:"restaurantId,omitempty"`
	Role         Role   `json:"role,omitempty"`
}

// Anonymous reports whether the session carries no identity at all.
func (s SessionContext) Anonymous() bool {
	return s.UserID == "" && s.RestaurantID == ""
}

// PageContext describes the page the user was on when they asked.
type PageContext struct {
	Type string `json:"type"` // "product" | "restaurant" | "event" | page name
	ID   string `json:"id,omitempty"`
}
