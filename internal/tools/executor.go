package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/logging"
	"github.com/greenbasket/greenbasket/internal/repo"
)

// Executor dispatches validated tool calls to the repositories.
type Executor struct {
	repos repo.Repos
	log   *logging.Logger
}

// NewExecutor creates an executor over the given repositories.
func NewExecutor(repos repo.Repos, log *logging.Logger) *Executor {
	return &Executor{repos: repos, log: log.Sub("tools")}
}

// Execute runs one tool call. Arguments come straight from the model and
// are untrusted: they are coerced into typed values with per-tool
// defaults before any repository is touched. Authorization is re-checked
// here even though callers gate first. Authorization failures keep their
// sentinel; every other failure is logged and wrapped as a generic
// execution failure.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, session domain.SessionContext) (any, error) {
	if err := Authorize(name, session); err != nil {
		return nil, err
	}

	result, err := e.dispatch(ctx, name, args, session)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		e.log.Error().Str("tool", name).Err(err).Msg("tool execution failed")
		return nil, fmt.Errorf("tool execution failed: %w", err)
	}
	return result, nil
}

func (e *Executor) dispatch(ctx context.Context, name string, args map[string]any, session domain.SessionContext) (any, error) {
	switch name {
	case "getGeneralInfo":
		return GeneralInfo(), nil
	case "navigation":
		return NavigationHint(argString(args, "page")), nil

	case "getProductsByCategory":
		return e.repos.Products.ByCategory(ctx, argString(args, "category"), argInt(args, "limit", 5))
	case "getTopRatedProducts":
		return e.repos.Products.TopRated(ctx, argInt(args, "limit", 5))
	case "getCheapestProducts":
		return e.repos.Products.Cheapest(ctx, argInt(args, "limit", 5))
	case "getMostSustainableProducts":
		return e.repos.Products.MostSustainable(ctx, argInt(args, "limit", 5))
	case "getTopRatedRestaurants":
		return e.repos.Restaurants.TopRated(ctx, argInt(args, "limit", 5))
	case "getPlatformStats":
		return e.repos.Stats.PlatformStats(ctx)
	case "getPointsLeaderboard":
		return e.repos.Users.Leaderboard(ctx, argInt(args, "limit", 5))
	case "getUpcomingEvents":
		return e.repos.Events.Upcoming(ctx, argInt(args, "limit", 5))

	case "viewMyCart":
		return e.repos.Users.Cart(ctx, session.UserID)
	case "addToCart":
		return e.addToCart(ctx, args, session)
	case "removeFromCart":
		return e.mutateCart(ctx, session, func(items []domain.CartItem) []domain.CartItem {
			return removeLine(items, argString(args, "productId"))
		})
	case "updateCartItem":
		return e.mutateCart(ctx, session, func(items []domain.CartItem) []domain.CartItem {
			return setQuantity(items, argString(args, "productId"), argInt(args, "quantity", 0))
		})
	case "clearCart":
		return e.mutateCart(ctx, session, func([]domain.CartItem) []domain.CartItem {
			return nil
		})
	case "viewMyFavorites":
		return e.repos.Users.Favorites(ctx, session.UserID)
	case "addToFavorites":
		return e.addToFavorites(ctx, args, session)
	case "removeFromFavorites":
		if err := e.repos.Users.RemoveFavorite(ctx, session.UserID, argString(args, "productId")); err != nil {
			return nil, err
		}
		return e.repos.Users.Favorites(ctx, session.UserID)
	case "getMyOrders":
		return e.repos.Orders.RecentByUser(ctx, session.UserID, argInt(args, "limit", 5))
	case "getMyPoints":
		u, err := e.repos.Users.FindByID(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"points": u.Points}, nil
	case "getMyRecyclingEntries":
		return e.repos.Recycling.ByUser(ctx, session.UserID, argInt(args, "limit", 5))

	case "getRestaurantOrders":
		return e.repos.Orders.RecentByRestaurant(ctx, session.RestaurantID, argInt(args, "limit", 5))
	case "getOrdersByStatus":
		status := domain.OrderStatus(argString(args, "status"))
		if !domain.ValidOrderStatus(status) {
			return nil, fmt.Errorf("invalid order status %q", status)
		}
		return e.repos.Orders.ByStatus(ctx, session.RestaurantID, status, argInt(args, "limit", 5))
	case "updateOrderStatus":
		return e.updateOrderStatus(ctx, args, session)
	case "createProduct":
		return e.createProduct(ctx, args, session)
	case "updateProduct":
		return e.updateProduct(ctx, args, session)
	case "deleteProduct":
		return e.deleteProduct(ctx, args, session)
	case "getRestaurantStats":
		return e.repos.Stats.RestaurantSummary(ctx, session.RestaurantID)

	case "createEvent":
		return e.createEvent(ctx, args, session)
	case "updateEvent":
		return e.updateEvent(ctx, args, session)
	case "deleteEvent":
		return e.deleteEvent(ctx, args, session)
	case "getMyEvents":
		return e.repos.Events.ByOrganizer(ctx, session.UserID)

	case "getPendingRecycling":
		return e.repos.Recycling.Pending(ctx, argInt(args, "limit", 5))
	case "updateRecyclingStatus":
		return e.updateRecyclingStatus(ctx, args)
	}
	return nil, ErrUnknownTool
}

func (e *Executor) addToCart(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	productID := argString(args, "productId")
	quantity := argInt(args, "quantity", 1)
	if quantity < 1 {
		quantity = 1
	}

	product, err := e.repos.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return e.mutateCart(ctx, session, func(items []domain.CartItem) []domain.CartItem {
		for i, item := range items {
			if item.ProductID == productID {
				items[i].Quantity += quantity
				return items
			}
		}
		return append(items, domain.CartItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   quantity,
		})
	})
}

// mutateCart fetches the current cart, applies fn to a fresh copy and
// saves the result wholesale. The fetched snapshot is never mutated in
// place, so concurrent readers see either the old or the new value.
func (e *Executor) mutateCart(ctx context.Context, session domain.SessionContext, fn func([]domain.CartItem) []domain.CartItem) (any, error) {
	current, err := e.repos.Users.Cart(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	next := fn(append([]domain.CartItem(nil), current...))
	if err := e.repos.Users.SaveCart(ctx, session.UserID, next); err != nil {
		return nil, err
	}
	if next == nil {
		next = []domain.CartItem{}
	}
	return next, nil
}

func removeLine(items []domain.CartItem, productID string) []domain.CartItem {
	var kept []domain.CartItem
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	return kept
}

func setQuantity(items []domain.CartItem, productID string, quantity int) []domain.CartItem {
	if quantity <= 0 {
		return removeLine(items, productID)
	}
	for i, item := range items {
		if item.ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return items
}

func (e *Executor) addToFavorites(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	product, err := e.repos.Products.FindByID(ctx, argString(args, "productId"))
	if err != nil {
		return nil, err
	}
	f := domain.Favorite{ProductID: product.ID, Name: product.Name, AddedAt: time.Now()}
	if err := e.repos.Users.AddFavorite(ctx, session.UserID, f); err != nil {
		return nil, err
	}
	return e.repos.Users.Favorites(ctx, session.UserID)
}

func (e *Executor) updateOrderStatus(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	status := domain.OrderStatus(argString(args, "status"))
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid order status %q", status)
	}

	order, err := e.repos.Orders.FindByID(ctx, argString(args, "orderId"))
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != session.RestaurantID {
		return nil, ErrOwnership
	}
	if err := e.repos.Orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

func (e *Executor) createProduct(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	p := &domain.Product{
		ID:             uuid.NewString(),
		RestaurantID:   session.RestaurantID,
		Name:           argString(args, "name"),
		Description:    argString(args, "description"),
		Category:       argString(args, "category"),
		PriceCents:     int64(argInt(args, "priceCents", 0)),
		Sustainability: argFloat(args, "sustainability", 0),
		CreatedAt:      time.Now(),
	}
	if p.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if err := e.repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Executor) updateProduct(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	p, err := e.ownProduct(ctx, argString(args, "productId"), session)
	if err != nil {
		return nil, err
	}
	if v := argString(args, "name"); v != "" {
		p.Name = v
	}
	if v := argString(args, "description"); v != "" {
		p.Description = v
	}
	if v := argString(args, "category"); v != "" {
		p.Category = v
	}
	if _, ok := args["priceCents"]; ok {
		p.PriceCents = int64(argInt(args, "priceCents", 0))
	}
	if _, ok := args["sustainability"]; ok {
		p.Sustainability = argFloat(args, "sustainability", 0)
	}
	if err := e.repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Executor) deleteProduct(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	p, err := e.ownProduct(ctx, argString(args, "productId"), session)
	if err != nil {
		return nil, err
	}
	if err := e.repos.Products.Delete(ctx, p.ID); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": p.ID}, nil
}

func (e *Executor) ownProduct(ctx context.Context, id string, session domain.SessionContext) (*domain.Product, error) {
	p, err := e.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.RestaurantID != session.RestaurantID {
		return nil, ErrOwnership
	}
	return p, nil
}

func (e *Executor) createEvent(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	startsAt, err := time.Parse(time.RFC3339, argString(args, "startsAt"))
	if err != nil {
		return nil, fmt.Errorf("invalid startsAt: %w", err)
	}
	ev := &domain.Event{
		ID:          uuid.NewString(),
		OrganizerID: session.UserID,
		Title:       argString(args, "title"),
		Description: argString(args, "description"),
		Location:    argString(args, "location"),
		StartsAt:    startsAt,
		CreatedAt:   time.Now(),
	}
	if ev.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if err := e.repos.Events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (e *Executor) updateEvent(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	ev, err := e.ownEvent(ctx, argString(args, "eventId"), session)
	if err != nil {
		return nil, err
	}
	if v := argString(args, "title"); v != "" {
		ev.Title = v
	}
	if v := argString(args, "description"); v != "" {
		ev.Description = v
	}
	if v := argString(args, "location"); v != "" {
		ev.Location = v
	}
	if v := argString(args, "startsAt"); v != "" {
		startsAt, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid startsAt: %w", err)
		}
		ev.StartsAt = startsAt
	}
	if err := e.repos.Events.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (e *Executor) deleteEvent(ctx context.Context, args map[string]any, session domain.SessionContext) (any, error) {
	ev, err := e.ownEvent(ctx, argString(args, "eventId"), session)
	if err != nil {
		return nil, err
	}
	if err := e.repos.Events.Delete(ctx, ev.ID); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": ev.ID}, nil
}

func (e *Executor) ownEvent(ctx context.Context, id string, session domain.SessionContext) (*domain.Event, error) {
	ev, err := e.repos.Events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.OrganizerID != session.UserID {
		return nil, ErrOwnership
	}
	return ev, nil
}

func (e *Executor) updateRecyclingStatus(ctx context.Context, args map[string]any) (any, error) {
	status := domain.RecyclingStatus(argString(args, "status"))
	if status != domain.RecyclingApproved && status != domain.RecyclingRejected {
		return nil, fmt.Errorf("invalid recycling status %q", status)
	}

	entry, err := e.repos.Recycling.FindByID(ctx, argString(args, "entryId"))
	if err != nil {
		return nil, err
	}

	points := 0
	if status == domain.RecyclingApproved {
		points = argInt(args, "points", defaultRecyclingPoints(entry.WeightGrams))
	}
	if err := e.repos.Recycling.UpdateStatus(ctx, entry.ID, status, points); err != nil {
		return nil, err
	}
	if points > 0 {
		if err := e.repos.Users.AddPoints(ctx, entry.UserID, points); err != nil {
			// The review and the credit are separate writes; a failed
			// credit must not leave the entry recorded as approved.
			if rbErr := e.repos.Recycling.UpdateStatus(ctx, entry.ID, entry.Status, entry.PointsAwarded); rbErr != nil {
				e.log.Error().Err(rbErr).Str("entryId", entry.ID).Msg("failed to revert recycling review after credit failure")
			}
			return nil, err
		}
	}
	entry.Status = status
	entry.PointsAwarded = points
	return entry, nil
}

// defaultRecyclingPoints awards one point per started 100g.
func defaultRecyclingPoints(weightGrams int) int {
	if weightGrams <= 0 {
		return 0
	}
	return (weightGrams + 99) / 100
}

// Argument coercion. Model-supplied arguments arrive as a decoded JSON
// object, so numbers are float64 and anything can be missing or of the
// wrong type. Bad values fall back to the default instead of failing.

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

func argFloat(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
