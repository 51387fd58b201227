package tools

import "fmt"

// GeneralInfo returns the canned platform description. It is a pure
// template used both by the fast path and by the executor when the
// model asks for it.
func GeneralInfo() string {
	return "Greenbasket is a sustainable food marketplace. Browse eco-friendly " +
		"products from local restaurants, order for pickup or delivery, earn green " +
		"points by recycling packaging, and join community events. The " +
		"sustainability score on every product shows its environmental footprint, " +
		"and the leaderboard tracks the top recyclers on the platform."
}

// navigationPaths maps page names to their app routes.
var navigationPaths = map[string]string{
	"home":        "/",
	"cart":        "/cart",
	"orders":      "/orders",
	"favorites":   "/favorites",
	"products":    "/products",
	"restaurants": "/restaurants",
	"recycling":   "/recycling",
	"events":      "/events",
	"leaderboard": "/leaderboard",
	"profile":     "/profile",
}

// NavigationHint returns a short instruction for reaching the named page.
func NavigationHint(page string) string {
	if path, ok := navigationPaths[page]; ok {
		return fmt.Sprintf("You can find %s at %s in the app menu.", page, path)
	}
	return "Use the menu at the top of the page to get around the app."
}
