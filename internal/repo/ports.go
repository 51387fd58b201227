// Package repo defines the repository ports the assistant engine depends
// on, plus SQLite and in-memory implementations.
package repo

import (
	"context"
	"errors"

	"github.com/greenbasket/greenbasket/internal/domain"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// ProductRepo provides product reads and restaurant-scoped writes.
type ProductRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
	TopRated(ctx context.Context, limit int) ([]domain.Product, error)
	Cheapest(ctx context.Context, limit int) ([]domain.Product, error)
	MostSustainable(ctx context.Context, limit int) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// RestaurantRepo provides restaurant reads.
type RestaurantRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Restaurant, error)
	TopRated(ctx context.Context, limit int) ([]domain.Restaurant, error)
}

// UserRepo provides user accounts, carts, favorites and the points
// leaderboard. Carts are replaced wholesale on every mutation.
type UserRepo interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Cart(ctx context.Context, userID string) ([]domain.CartItem, error)
	SaveCart(ctx context.Context, userID string, items []domain.CartItem) error
	Favorites(ctx context.Context, userID string) ([]domain.Favorite, error)
	AddFavorite(ctx context.Context, userID string, f domain.Favorite) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	AddPoints(ctx context.Context, userID string, points int) error
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// OrderRepo provides order reads and the status transition.
type OrderRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
	RecentByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Order, error)
	ByStatus(ctx context.Context, restaurantID string, status domain.OrderStatus, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// RecyclingRepo provides recycling entry reads and the review transition.
type RecyclingRepo interface {
	FindByID(ctx context.Context, id string) (*domain.RecyclingEntry, error)
	ByUser(ctx context.Context, userID string, limit int) ([]domain.RecyclingEntry, error)
	Pending(ctx context.Context, limit int) ([]domain.RecyclingEntry, error)
	UpdateStatus(ctx context.Context, id string, status domain.RecyclingStatus, points int) error
}

// EventRepo provides event reads and organizer-scoped CRUD.
type EventRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	Upcoming(ctx context.Context, limit int) ([]domain.Event, error)
	ByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error)
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// StatsRepo provides coarse aggregate counters.
type StatsRepo interface {
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
	UserSummary(ctx context.Context, userID string) (*domain.UserAccountSummary, error)
	RestaurantSummary(ctx context.Context, restaurantID string) (*domain.RestaurantAccountSummary, error)
}

// Repos bundles every port the assistant engine needs.
type Repos struct {
	Products    ProductRepo
	Restaurants RestaurantRepo
	Users       UserRepo
	Orders      OrderRepo
	Recycling   RecyclingRepo
	Events      EventRepo
	Stats       StatsRepo
}
