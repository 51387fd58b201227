package domain

// PlatformStats is the live platform snapshot shown to the assistant.
// Figures can change between requests, so bundles are never cached.
type PlatformStats struct {
	Products         int   `json:"products"`
	Restaurants      int   `json:"restaurants"`
	Orders           int   `json:"orders"`
	RecyclingEntries int   `json:"recyclingEntries"`
	Events           int   `json:"events"`
	CarbonSavedGrams int64 `json:"carbonSavedGrams"`
}

// UserAccountSummary is the role-specific account context for a customer.
type UserAccountSummary struct {
	Name          string `json:"name"`
	Points        int    `json:"points"`
	CartItems     int    `json:"cartItems"`
	CartTotal     int64  `json:"cartTotalCents"`
	Favorites     int    `json:"favorites"`
	RecentOrders  int    `json:"recentOrders"`
	PendingOrders int    `json:"pendingOrders"`
}

// RestaurantAccountSummary is the account context for a restaurant.
type RestaurantAccountSummary struct {
	Name          string `json:"name"`
	Products      int    `json:"products"`
	Orders        int    `json:"orders"`
	PendingOrders int    `json:"pendingOrders"`
	RevenueCents  int64  `json:"revenueCents"`
}
