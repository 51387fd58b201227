package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/domain"
)

func TestAuthorizeOpenToolsIgnoreSession(t *testing.T) {
	open := []string{
		"getGeneralInfo", "navigation", "getProductsByCategory",
		"getTopRatedProducts", "getCheapestProducts", "getMostSustainableProducts",
		"getTopRatedRestaurants", "getPlatformStats", "getPointsLeaderboard",
		"getUpcomingEvents",
	}

	sessions := []domain.SessionContext{
		{},
		{UserID: "u1"},
		{RestaurantID: "r1"},
		{UserID: "u1", Role: domain.RoleOrganizer},
	}

	for _, name := range open {
		for _, session := range sessions {
			assert.NoError(t, Authorize(name, session), "tool %s", name)
		}
	}
}

func TestAuthorizeSentinels(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		session domain.SessionContext
		want    error
	}{
		{"cart anonymous", "viewMyCart", domain.SessionContext{}, ErrAuthRequired},
		{"cart restaurant session", "viewMyCart", domain.SessionContext{RestaurantID: "r1"}, ErrAuthRequired},
		{"cart signed in", "viewMyCart", domain.SessionContext{UserID: "u1"}, nil},
		{"orders anonymous", "getRestaurantOrders", domain.SessionContext{}, ErrRestaurantRequired},
		{"orders customer session", "getRestaurantOrders", domain.SessionContext{UserID: "u1"}, ErrRestaurantRequired},
		{"orders restaurant", "getRestaurantOrders", domain.SessionContext{RestaurantID: "r1"}, nil},
		{"event anonymous", "createEvent", domain.SessionContext{}, ErrOrganizerRequired},
		{"event wrong role", "createEvent", domain.SessionContext{UserID: "u1", Role: domain.RoleCustomer}, ErrOrganizerRequired},
		{"event organizer", "createEvent", domain.SessionContext{UserID: "u1", Role: domain.RoleOrganizer}, nil},
		{"recycling wrong role", "getPendingRecycling", domain.SessionContext{UserID: "u1", Role: domain.RoleOrganizer}, ErrRecycleManRequired},
		{"recycling recycleMan", "getPendingRecycling", domain.SessionContext{UserID: "u1", Role: domain.RoleRecycleMan}, nil},
		{"unknown tool", "launchMissiles", domain.SessionContext{UserID: "u1"}, ErrUnknownTool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.tool, tt.session)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCatalogDefinitionsMatchLookup(t *testing.T) {
	defs := Definitions()
	require.NotEmpty(t, defs)

	for _, d := range defs {
		spec, ok := Lookup(d.Name)
		require.True(t, ok, "definition %s missing from lookup", d.Name)
		assert.Equal(t, spec.Description, d.Description)
		assert.NotEmpty(t, d.Parameters)
	}
}
