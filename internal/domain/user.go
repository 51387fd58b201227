package domain

import "time"

// Role further restricts which assistant tools a signed-in user can reach.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleOrganizer  Role = "organizer"
	RoleRecycleMan Role = "recycleMan"
)

// User is a customer account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItem is one product line in a user's cart.
// Carts are immutable values: mutations replace the whole slice rather
// than splicing in place, so a fetched snapshot is never aliased.
type CartItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// Favorite is a product a user has bookmarked.
type Favorite struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	AddedAt   time.Time `json:"addedAt"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
