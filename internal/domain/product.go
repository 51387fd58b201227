package domain

import "time"

// Product is an item sold by a restaurant on the platform.
type Product struct {
	ID             string    `json:"id"`
	RestaurantID   string    `json:"restaurantId"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	PriceCents     int64     `json:"priceCents"`
	Rating         float64   `json:"rating,omitempty"`
	Sustainability float64   `json:"sustainability,omitempty"` // 0-100 eco score
	ImageKey       string    `json:"imageKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Restaurant is a shop account selling products.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cuisine   string    `json:"cuisine,omitempty"`
	Rating    float64   `json:"rating,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
