package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/domain"
)

func TestMemoryCartSnapshotsAreNotAliased(t *testing.T) {
	m := NewMemory()
	m.PutUser(domain.User{ID: "u1", Name: "Maya"})
	repos := m.Repos()
	ctx := context.Background()

	require.NoError(t, repos.Users.SaveCart(ctx, "u1", []domain.CartItem{
		{ProductID: "p1", Name: "Oat Bowl", PriceCents: 1150, Quantity: 1},
	}))

	snapshot, err := repos.Users.Cart(ctx, "u1")
	require.NoError(t, err)
	snapshot[0].Quantity = 99

	fresh, err := repos.Users.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh[0].Quantity)
}

func TestMemoryLeaderboardOrdersByPoints(t *testing.T) {
	m := NewMemory()
	m.PutUser(domain.User{ID: "u1", Name: "Maya", Points: 120})
	m.PutUser(domain.User{ID: "u2", Name: "Jon", Points: 300})
	repos := m.Repos()

	board, err := repos.Users.Leaderboard(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "u2", board[0].UserID)
	assert.Equal(t, "u1", board[1].UserID)
}

func TestMemoryUpcomingEventsExcludePast(t *testing.T) {
	m := NewMemory()
	m.PutEvent(domain.Event{ID: "future", OrganizerID: "u1", Title: "Cleanup", StartsAt: time.Now().Add(time.Hour)})
	m.PutEvent(domain.Event{ID: "past", OrganizerID: "u1", Title: "Swap", StartsAt: time.Now().Add(-time.Hour)})
	repos := m.Repos()

	upcoming, err := repos.Events.Upcoming(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "future", upcoming[0].ID)
}

func TestMemoryFindByIDNotFound(t *testing.T) {
	repos := NewMemory().Repos()
	ctx := context.Background()

	_, err := repos.Products.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repos.Users.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repos.Orders.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
