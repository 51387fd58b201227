package repo

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/logging"
)

// openTestDB migrates a fresh database in a temp dir and seeds the
// fixtures the tests share.
func openTestDB(t *testing.T) (*DB, Repos) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"), logging.New(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exec := func(q string, args ...any) {
		_, err := db.SQL().Exec(q, args...)
		require.NoError(t, err)
	}

	exec(`INSERT INTO restaurants (id, name, cuisine, rating) VALUES
		('r1', 'Casa Verde', 'mediterranean', 4.7),
		('r2', 'Sprout Kitchen', 'vegan', 4.4)`)
	exec(`INSERT INTO products (id, restaurant_id, name, category, price_cents, rating, sustainability) VALUES
		('p1', 'r1', 'Oat Bowl', 'bowls', 1150, 4.8, 88),
		('p2', 'r1', 'Lentil Soup', 'soups', 650, 4.2, 92),
		('p3', 'r2', 'Falafel Wrap', 'wraps', 900, 4.5, 85)`)
	exec(`INSERT INTO users (id, name, role, points) VALUES
		('u1', 'Maya', 'customer', 120),
		('u2', 'Jon', 'recycleMan', 40)`)
	exec(`INSERT INTO orders (id, user_id, restaurant_id, status, total_cents) VALUES
		('o1', 'u1', 'r1', 'pending', 1800),
		('o2', 'u1', 'r2', 'delivered', 900)`)
	exec(`INSERT INTO recycling_entries (id, user_id, material, weight_grams, status, carbon_saved_g) VALUES
		('rc1', 'u1', 'glass', 250, 'pending', 0),
		('rc2', 'u1', 'plastic', 500, 'approved', 300)`)
	exec(`INSERT INTO events (id, organizer_id, title, starts_at) VALUES
		('e1', 'u1', 'River Cleanup', ?),
		('e2', 'u1', 'Past Swap Meet', ?)`,
		time.Now().Add(48*time.Hour).UTC().Format(time.DateTime),
		time.Now().Add(-48*time.Hour).UTC().Format(time.DateTime))

	return db, NewSQLite(db)
}

func TestProductFindByID(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	p, err := repos.Products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Oat Bowl", p.Name)
	assert.Equal(t, int64(1150), p.PriceCents)

	_, err = repos.Products.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductListOrderings(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	sustainable, err := repos.Products.MostSustainable(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sustainable, 2)
	assert.Equal(t, "p2", sustainable[0].ID)

	cheapest, err := repos.Products.Cheapest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cheapest, 1)
	assert.Equal(t, "p2", cheapest[0].ID)

	topRated, err := repos.Products.TopRated(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "p1", topRated[0].ID)

	bowls, err := repos.Products.ByCategory(ctx, "bowls", 5)
	require.NoError(t, err)
	require.Len(t, bowls, 1)
	assert.Equal(t, "p1", bowls[0].ID)
}

func TestProductCRUDRoundTrip(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	p := &domain.Product{ID: "p9", RestaurantID: "r1", Name: "Chia Pudding", Category: "desserts", PriceCents: 550, Sustainability: 90}
	require.NoError(t, repos.Products.Create(ctx, p))

	p.PriceCents = 600
	require.NoError(t, repos.Products.Update(ctx, p))

	got, err := repos.Products.FindByID(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, int64(600), got.PriceCents)

	require.NoError(t, repos.Products.Delete(ctx, "p9"))
	_, err = repos.Products.FindByID(ctx, "p9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartReplacedWholesale(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	cart, err := repos.Users.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	items := []domain.CartItem{{ProductID: "p1", Name: "Oat Bowl", PriceCents: 1150, Quantity: 2}}
	require.NoError(t, repos.Users.SaveCart(ctx, "u1", items))

	cart, err = repos.Users.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)

	require.NoError(t, repos.Users.SaveCart(ctx, "u1", []domain.CartItem{}))
	cart, err = repos.Users.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestFavoritesAreDeduplicated(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	f := domain.Favorite{ProductID: "p1", Name: "Oat Bowl"}
	require.NoError(t, repos.Users.AddFavorite(ctx, "u1", f))
	require.NoError(t, repos.Users.AddFavorite(ctx, "u1", f))

	favs, err := repos.Users.Favorites(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	require.NoError(t, repos.Users.RemoveFavorite(ctx, "u1", "p1"))
	favs, err = repos.Users.Favorites(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestAddPointsAndLeaderboard(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Users.AddPoints(ctx, "u2", 200))
	assert.ErrorIs(t, repos.Users.AddPoints(ctx, "ghost", 10), ErrNotFound)

	board, err := repos.Users.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "u2", board[0].UserID)
	assert.Equal(t, 240, board[0].Points)
}

func TestOrderStatusTransition(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Orders.UpdateStatus(ctx, "o1", domain.OrderPreparing))

	o, err := repos.Orders.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPreparing, o.Status)

	preparing, err := repos.Orders.ByStatus(ctx, "r1", domain.OrderPreparing, 5)
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, "o1", preparing[0].ID)

	assert.ErrorIs(t, repos.Orders.UpdateStatus(ctx, "ghost", domain.OrderReady), ErrNotFound)
}

func TestOrdersScopedByCaller(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	mine, err := repos.Orders.RecentByUser(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	r1Orders, err := repos.Orders.RecentByRestaurant(ctx, "r1", 5)
	require.NoError(t, err)
	require.Len(t, r1Orders, 1)
	assert.Equal(t, "o1", r1Orders[0].ID)
}

func TestRecyclingReview(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	pending, err := repos.Recycling.Pending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "rc1", pending[0].ID)

	require.NoError(t, repos.Recycling.UpdateStatus(ctx, "rc1", domain.RecyclingApproved, 3))

	e, err := repos.Recycling.FindByID(ctx, "rc1")
	require.NoError(t, err)
	assert.Equal(t, domain.RecyclingApproved, e.Status)
	assert.Equal(t, 3, e.PointsAwarded)

	pending, err = repos.Recycling.Pending(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEventsUpcomingExcludesPast(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	upcoming, err := repos.Events.Upcoming(ctx, 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "e1", upcoming[0].ID)

	all, err := repos.Events.ByOrganizer(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEventCRUDRoundTrip(t *testing.T) {
	_, repos := openTestDB(t)
	ctx := context.Background()

	e := &domain.Event{ID: "e9", OrganizerID: "u1", Title: "Seed Swap", StartsAt: time.Now().Add(24 * time.Hour)}
	require.NoError(t, repos.Events.Create(ctx, e))

	e.Location = "Town Hall"
	require.NoError(t, repos.Events.Update(ctx, e))

	got, err := repos.Events.FindByID(ctx, "e9")
	require.NoError(t, err)
	assert.Equal(t, "Town Hall", got.Location)

	require.NoError(t, repos.Events.Delete(ctx, "e9"))
	_, err = repos.Events.FindByID(ctx, "e9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlatformStats(t *testing.T) {
	_, repos := openTestDB(t)

	stats, err := repos.Stats.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Products)
	assert.Equal(t, 2, stats.Restaurants)
	assert.Equal(t, 2, stats.Orders)
	// Only approved entries count towards carbon savings.
	assert.Equal(t, int64(300), stats.CarbonSavedGrams)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db, _ := openTestDB(t)
	// A second migrate over an up-to-date schema is a no-op.
	require.NoError(t, db.migrate())
}
