package tools

import "github.com/greenbasket/greenbasket/internal/llm"

// AuthClass is the authorization class a tool belongs to. The classes
// are disjoint; a tool is in exactly one.
type AuthClass int

const (
	// AuthNone tools are always permitted.
	AuthNone AuthClass = iota
	// AuthCustomer tools require a signed-in user.
	AuthCustomer
	// AuthRestaurant tools require a restaurant session.
	AuthRestaurant
	// AuthOrganizer tools require a signed-in user with the organizer role.
	AuthOrganizer
	// AuthRecycleMan tools require a signed-in user with the recycleMan role.
	AuthRecycleMan
)

// Spec describes one tool in the catalog: its wire definition for the
// model plus the authorization class the gate enforces.
type Spec struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object describing the arguments.
	Parameters string
	Auth       AuthClass
}

const (
	noParams    = `{"type":"object","properties":{}}`
	limitParams = `{"type":"object","properties":{"limit":{"type":"integer","description":"Maximum number of results, default 5"}}}`
)

// catalog is the full tool set, loaded once. Order is the presentation
// order sent to the model.
var catalog = []Spec{
	{
		Name:        "getGeneralInfo",
		Description: "Explain what Greenbasket is and how the platform works.",
		Parameters:  noParams,
	},
	{
		Name:        "navigation",
		Description: "Tell the user how to reach a page of the app.",
		Parameters:  `{"type":"object","properties":{"page":{"type":"string","description":"Target page, e.g. cart, orders, recycling, events, leaderboard"}},"required":["page"]}`,
	},
	{
		Name:        "getProductsByCategory",
		Description: "List products in a category, best rated first.",
		Parameters:  `{"type":"object","properties":{"category":{"type":"string"},"limit":{"type":"integer","description":"Maximum number of results, default 5"}},"required":["category"]}`,
	},
	{
		Name:        "getTopRatedProducts",
		Description: "List the best rated products across the platform.",
		Parameters:  limitParams,
	},
	{
		Name:        "getCheapestProducts",
		Description: "List the cheapest products across the platform.",
		Parameters:  limitParams,
	},
	{
		Name:        "getMostSustainableProducts",
		Description: "List products with the highest sustainability score.",
		Parameters:  limitParams,
	},
	{
		Name:        "getTopRatedRestaurants",
		Description: "List the best rated restaurants.",
		Parameters:  limitParams,
	},
	{
		Name:        "getPlatformStats",
		Description: "Live platform totals: products, restaurants, orders, recycling, events, carbon saved.",
		Parameters:  noParams,
	},
	{
		Name:        "getPointsLeaderboard",
		Description: "Top users by green points.",
		Parameters:  limitParams,
	},
	{
		Name:        "getUpcomingEvents",
		Description: "Community events starting in the future, soonest first.",
		Parameters:  limitParams,
	},

	{
		Name:        "viewMyCart",
		Description: "Show the signed-in user's cart contents.",
		Parameters:  noParams,
		Auth:        AuthCustomer,
	},
	{
		Name:        "addToCart",
		Description: "Add a product to the signed-in user's cart.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"},"quantity":{"type":"integer","description":"Default 1"}},"required":["productId"]}`,
		Auth:        AuthCustomer,
	},
	{
		Name:        "removeFromCart",
		Description: "Remove a product from the signed-in user's cart.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"}},"required":["productId"]}`,
		Auth:        AuthCustomer,
	},
	{
		Name:        "updateCartItem",
		Description: "Change the quantity of a cart line. Quantity zero removes it.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"},"quantity":{"type":"integer"}},"required":["productId","quantity"]}`,
		Auth:        AuthCustomer,
	},
	{
		Name:        "clearCart",
		Description: "Empty the signed-in user's cart.",
		Parameters:  noParams,
		Auth:        AuthCustomer,
	},
	{
		Name:        "viewMyFavorites",
		Description: "List the signed-in user's favorite products.",
		Parameters:  noParams,
		Auth:        AuthCustomer,
	},
	{
		Name:        "addToFavorites",
		Description: "Add a product to the signed-in user's favorites.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"}},"required":["productId"]}`,
		Auth:        AuthCustomer,
	},
	{
		Name:        "removeFromFavorites",
		Description: "Remove a product from the signed-in user's favorites.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"}},"required":["productId"]}`,
		Auth:        AuthCustomer,
	},
	{
		Name:        "getMyOrders",
		Description: "The signed-in user's recent orders, newest first.",
		Parameters:  limitParams,
		Auth:        AuthCustomer,
	},
	{
		Name:        "getMyPoints",
		Description: "The signed-in user's green points balance.",
		Parameters:  noParams,
		Auth:        AuthCustomer,
	},
	{
		Name:        "getMyRecyclingEntries",
		Description: "The signed-in user's recycling submissions, newest first.",
		Parameters:  limitParams,
		Auth:        AuthCustomer,
	},

	{
		Name:        "getRestaurantOrders",
		Description: "Recent orders for the signed-in restaurant, newest first.",
		Parameters:  limitParams,
		Auth:        AuthRestaurant,
	},
	{
		Name:        "getOrdersByStatus",
		Description: "The signed-in restaurant's orders filtered by status.",
		Parameters:  `{"type":"object","properties":{"status":{"type":"string","enum":["pending","preparing","ready","delivered","cancelled"]},"limit":{"type":"integer","description":"Maximum number of results, default 5"}},"required":["status"]}`,
		Auth:        AuthRestaurant,
	},
	{
		Name:        "updateOrderStatus",
		Description: "Move one of the signed-in restaurant's orders to a new status.",
		Parameters:  `{"type":"object","properties":{"orderId":{"type":"string"},"status":{"type":"string","enum":["pending","preparing","ready","delivered","cancelled"]}},"required":["orderId","status"]}`,
		Auth:        AuthRestaurant,
	},
	{
		Name:        "createProduct",
		Description: "Create a product for the signed-in restaurant.",
		Parameters:  `{"type":"object","properties":{"name":{"type":"string"},"description":{"type":"string"},"category":{"type":"string"},"priceCents":{"type":"integer"},"sustainability":{"type":"number","description":"Eco score from 0 to 100"}},"required":["name","category","priceCents"]}`,
		Auth:        AuthRestaurant,
	},
	{
		Name:        "updateProduct",
		Description: "Update one of the signed-in restaurant's products.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"},"name":{"type":"string"},"description":{"type":"string"},"category":{"type":"string"},"priceCents":{"type":"integer"},"sustainability":{"type":"number"}},"required":["productId"]}`,
		Auth:        AuthRestaurant,
	},
	{
		Name:        "deleteProduct",
		Description: "Delete one of the signed-in restaurant's products.",
		Parameters:  `{"type":"object","properties":{"productId":{"type":"string"}},"required":["productId"]}`,
		Auth:        AuthRestaurant,
	},
	{
		Name:        "getRestaurantStats",
		Description: "Product, order and revenue totals for the signed-in restaurant.",
		Parameters:  noParams,
		Auth:        AuthRestaurant,
	},

	{
		Name:        "createEvent",
		Description: "Create a community event for the signed-in organizer.",
		Parameters:  `{"type":"object","properties":{"title":{"type":"string"},"description":{"type":"string"},"location":{"type":"string"},"startsAt":{"type":"string","description":"RFC 3339 start time"}},"required":["title","startsAt"]}`,
		Auth:        AuthOrganizer,
	},
	{
		Name:        "updateEvent",
		Description: "Update one of the signed-in organizer's events.",
		Parameters:  `{"type":"object","properties":{"eventId":{"type":"string"},"title":{"type":"string"},"description":{"type":"string"},"location":{"type":"string"},"startsAt":{"type":"string"}},"required":["eventId"]}`,
		Auth:        AuthOrganizer,
	},
	{
		Name:        "deleteEvent",
		Description: "Delete one of the signed-in organizer's events.",
		Parameters:  `{"type":"object","properties":{"eventId":{"type":"string"}},"required":["eventId"]}`,
		Auth:        AuthOrganizer,
	},
	{
		Name:        "getMyEvents",
		Description: "Events created by the signed-in organizer.",
		Parameters:  noParams,
		Auth:        AuthOrganizer,
	},

	{
		Name:        "getPendingRecycling",
		Description: "Recycling submissions awaiting review, oldest first.",
		Parameters:  limitParams,
		Auth:        AuthRecycleMan,
	},
	{
		Name:        "updateRecyclingStatus",
		Description: "Approve or reject a recycling submission, optionally awarding points.",
		Parameters:  `{"type":"object","properties":{"entryId":{"type":"string"},"status":{"type":"string","enum":["approved","rejected"]},"points":{"type":"integer","description":"Points to award on approval"}},"required":["entryId","status"]}`,
		Auth:        AuthRecycleMan,
	},
}

var catalogByName = func() map[string]Spec {
	m := make(map[string]Spec, len(catalog))
	for _, s := range catalog {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the catalog entry for name.
func Lookup(name string) (Spec, bool) {
	s, ok := catalogByName[name]
	return s, ok
}

// Definitions returns the catalog in presentation order, ready to send
// to the completion service.
func Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(catalog))
	for _, s := range catalog {
		defs = append(defs, llm.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.Parameters,
		})
	}
	return defs
}
