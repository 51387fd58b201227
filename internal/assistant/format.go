package assistant

import (
	"fmt"
	"strings"

	"github.com/greenbasket/greenbasket/internal/domain"
)

// Fixed strings pinned by the fast-path contract.
const (
	cartEmptyReply    = "Your cart is empty."
	nothingFoundReply = "I couldn't find anything for that."
	genericOKReply    = "Done! Anything else I can help with?"
)

// formatResult renders a tool result as a final reply. Only the fast
// path uses it; on the model path the model words tool results itself.
// Tools without a dedicated branch fall back to a generic
// acknowledgment, and empty results to a fixed "nothing found" string.
func formatResult(toolName string, result any) string {
	switch toolName {
	case "viewMyCart":
		return formatCart(result)
	case "getMostSustainableProducts", "getTopRatedProducts", "getCheapestProducts", "getProductsByCategory":
		return formatProducts(result)
	case "getPointsLeaderboard":
		return formatLeaderboard(result)
	case "getMyOrders":
		return formatOrders(result)
	case "getUpcomingEvents":
		return formatEvents(result)
	case "getPlatformStats":
		if stats, ok := result.(*domain.PlatformStats); ok {
			return fmt.Sprintf(
				"Greenbasket right now: %d products from %d restaurants, %d orders, %d recycling entries and %d events. Together we've saved %.1f kg of carbon.",
				stats.Products, stats.Restaurants, stats.Orders,
				stats.RecyclingEntries, stats.Events,
				float64(stats.CarbonSavedGrams)/1000)
		}
	}

	if isEmptyResult(result) {
		return nothingFoundReply
	}
	return genericOKReply
}

func formatCart(result any) string {
	items, ok := result.([]domain.CartItem)
	if !ok || len(items) == 0 {
		return cartEmptyReply
	}

	var b strings.Builder
	b.WriteString("Here's your cart:\n")
	var total int64
	for _, item := range items {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", item.Quantity, item.Name, formatCents(item.PriceCents))
		total += item.PriceCents * int64(item.Quantity)
	}
	fmt.Fprintf(&b, "Total: %s", formatCents(total))
	return b.String()
}

func formatProducts(result any) string {
	products, ok := result.([]domain.Product)
	if !ok || len(products) == 0 {
		return nothingFoundReply
	}

	var b strings.Builder
	b.WriteString("Here's what I found:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s", p.Name, formatCents(p.PriceCents))
		if p.Sustainability > 0 {
			fmt.Fprintf(&b, ", eco score %.0f", p.Sustainability)
		}
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatLeaderboard(result any) string {
	entries, ok := result.([]domain.LeaderboardEntry)
	if !ok || len(entries) == 0 {
		return nothingFoundReply
	}

	var b strings.Builder
	b.WriteString("Top recyclers:\n")
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. %s — %d points\n", i+1, entry.Name, entry.Points)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatOrders(result any) string {
	orders, ok := result.([]domain.Order)
	if !ok || len(orders) == 0 {
		return "You have no orders yet."
	}

	var b strings.Builder
	b.WriteString("Your recent orders:\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "- #%s: %s, %s\n", shortID(o.ID), o.Status, formatCents(o.TotalCents))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEvents(result any) string {
	events, ok := result.([]domain.Event)
	if !ok || len(events) == 0 {
		return "No upcoming events right now."
	}

	var b strings.Builder
	b.WriteString("Upcoming events:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- %s on %s", e.Title, e.StartsAt.Format("Mon Jan 2"))
		if e.Location != "" {
			fmt.Fprintf(&b, " at %s", e.Location)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// shortID truncates identifiers for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func isEmptyResult(result any) bool {
	switch v := result.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []domain.Product:
		return len(v) == 0
	case []domain.Order:
		return len(v) == 0
	case []domain.CartItem:
		return len(v) == 0
	case []domain.Favorite:
		return len(v) == 0
	case []domain.Event:
		return len(v) == 0
	case []domain.LeaderboardEntry:
		return len(v) == 0
	case []domain.RecyclingEntry:
		return len(v) == 0
	}
	return false
}
