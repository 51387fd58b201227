package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain"
)

// Memory holds an in-memory copy of the domain data. It backs tests and
// the demo mode of the ask command.
type Memory struct {
	mu          sync.RWMutex
	products    map[string]domain.Product
	restaurants map[string]domain.Restaurant
	users       map[string]domain.User
	carts       map[string][]domain.CartItem
	favorites   map[string][]domain.Favorite
	orders      map[string]domain.Order
	recycling   map[string]domain.RecyclingEntry
	events      map[string]domain.Event
}

// NewMemory creates an empty in-memory data set.
func NewMemory() *Memory {
	return &Memory{
		products:    make(map[string]domain.Product),
		restaurants: make(map[string]domain.Restaurant),
		users:       make(map[string]domain.User),
		carts:       make(map[string][]domain.CartItem),
		favorites:   make(map[string][]domain.Favorite),
		orders:      make(map[string]domain.Order),
		recycling:   make(map[string]domain.RecyclingEntry),
		events:      make(map[string]domain.Event),
	}
}

// Repos returns the port bundle, every port served by this instance.
func (m *Memory) Repos() Repos {
	return Repos{
		Products:    &memProductRepo{m},
		Restaurants: &memRestaurantRepo{m},
		Users:       &memUserRepo{m},
		Orders:      &memOrderRepo{m},
		Recycling:   &memRecyclingRepo{m},
		Events:      &memEventRepo{m},
		Stats:       &memStatsRepo{m},
	}
}

// Seed helpers for tests and demo data.

func (m *Memory) PutProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *Memory) PutRestaurant(r domain.Restaurant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants[r.ID] = r
}

func (m *Memory) PutUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *Memory) PutOrder(o domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *Memory) PutRecycling(e domain.RecyclingEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recycling[e.ID] = e
}

func (m *Memory) PutEvent(e domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
}

type memProductRepo struct{ m *Memory }

func (r *memProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) list(filter func(domain.Product) bool, less func(a, b domain.Product) bool, limit int) []domain.Product {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.Product
	for _, p := range r.m.products {
		if filter == nil || filter(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit = defaultLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memProductRepo) ByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	return r.list(
		func(p domain.Product) bool { return p.Category == category },
		func(a, b domain.Product) bool { return a.Rating > b.Rating }, limit), nil
}

func (r *memProductRepo) TopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(nil, func(a, b domain.Product) bool { return a.Rating > b.Rating }, limit), nil
}

func (r *memProductRepo) Cheapest(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(nil, func(a, b domain.Product) bool { return a.PriceCents < b.PriceCents }, limit), nil
}

func (r *memProductRepo) MostSustainable(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(nil, func(a, b domain.Product) bool { return a.Sustainability > b.Sustainability }, limit), nil
}

func (r *memProductRepo) Create(ctx context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Category = p.Category
	existing.PriceCents = p.PriceCents
	existing.Sustainability = p.Sustainability
	r.m.products[p.ID] = existing
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.products, id)
	return nil
}

type memRestaurantRepo struct{ m *Memory }

func (r *memRestaurantRepo) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	rest, ok := r.m.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rest, nil
}

func (r *memRestaurantRepo) TopRated(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.Restaurant
	for _, rest := range r.m.restaurants {
		out = append(out, rest)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if limit = defaultLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUserRepo struct{ m *Memory }

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) Cart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if _, ok := r.m.users[userID]; !ok {
		return nil, ErrNotFound
	}
	// Copy so callers never alias the stored slice.
	items := make([]domain.CartItem, len(r.m.carts[userID]))
	copy(items, r.m.carts[userID])
	return items, nil
}

func (r *memUserRepo) SaveCart(ctx context.Context, userID string, items []domain.CartItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[userID]; !ok {
		return ErrNotFound
	}
	saved := make([]domain.CartItem, len(items))
	copy(saved, items)
	r.m.carts[userID] = saved
	return nil
}

func (r *memUserRepo) Favorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	favorites := make([]domain.Favorite, len(r.m.favorites[userID]))
	copy(favorites, r.m.favorites[userID])
	return favorites, nil
}

func (r *memUserRepo) AddFavorite(ctx context.Context, userID string, f domain.Favorite) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.favorites[userID] {
		if existing.ProductID == f.ProductID {
			return nil
		}
	}
	if f.AddedAt.IsZero() {
		f.AddedAt = time.Now()
	}
	r.m.favorites[userID] = append(r.m.favorites[userID], f)
	return nil
}

func (r *memUserRepo) RemoveFavorite(ctx context.Context, userID, productID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var kept []domain.Favorite
	for _, f := range r.m.favorites[userID] {
		if f.ProductID != productID {
			kept = append(kept, f)
		}
	}
	r.m.favorites[userID] = kept
	return nil
}

func (r *memUserRepo) AddPoints(ctx context.Context, userID string, points int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Points += points
	r.m.users[userID] = u
	return nil
}

func (r *memUserRepo) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var entries []domain.LeaderboardEntry
	for _, u := range r.m.users {
		entries = append(entries, domain.LeaderboardEntry{UserID: u.ID, Name: u.Name, Points: u.Points})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	if limit = defaultLimit(limit); len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type memOrderRepo struct{ m *Memory }

func (r *memOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) list(filter func(domain.Order) bool, limit int) []domain.Order {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.Order
	for _, o := range r.m.orders {
		if filter(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit = defaultLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memOrderRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.UserID == userID }, limit), nil
}

func (r *memOrderRepo) RecentByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.RestaurantID == restaurantID }, limit), nil
}

func (r *memOrderRepo) ByStatus(ctx context.Context, restaurantID string, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool {
		return o.RestaurantID == restaurantID && o.Status == status
	}, limit), nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.m.orders[id] = o
	return nil
}

type memRecyclingRepo struct{ m *Memory }

func (r *memRecyclingRepo) FindByID(ctx context.Context, id string) (*domain.RecyclingEntry, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	e, ok := r.m.recycling[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *memRecyclingRepo) ByUser(ctx context.Context, userID string, limit int) ([]domain.RecyclingEntry, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.RecyclingEntry
	for _, e := range r.m.recycling {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit = defaultLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRecyclingRepo) Pending(ctx context.Context, limit int) ([]domain.RecyclingEntry, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.RecyclingEntry
	for _, e := range r.m.recycling {
		if e.Status == domain.RecyclingPending {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit = defaultLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRecyclingRepo) UpdateStatus(ctx context.Context, id string, status domain.RecyclingStatus, points int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.recycling[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = status
	e.PointsAwarded = points
	e.UpdatedAt = time.Now()
	r.m.recycling[id] = e
	return nil
}

type memEventRepo struct{ m *Memory }

func (r *memEventRepo) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	e, ok := r.m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *memEventRepo) Upcoming(ctx context.Context, limit int) ([]domain.Event, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	now := time.Now()
	var out []domain.Event
	for _, e := range r.m.events {
		if e.StartsAt.After(now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if limit = defaultLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memEventRepo) ByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var out []domain.Event
	for _, e := range r.m.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *memEventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.events[e.ID] = *e
	return nil
}

func (r *memEventRepo) Update(ctx context.Context, e *domain.Event) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[e.ID]; !ok {
		return ErrNotFound
	}
	r.m.events[e.ID] = *e
	return nil
}

func (r *memEventRepo) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.events, id)
	return nil
}

type memStatsRepo struct{ m *Memory }

func (r *memStatsRepo) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	stats := domain.PlatformStats{
		Products:         len(r.m.products),
		Restaurants:      len(r.m.restaurants),
		Orders:           len(r.m.orders),
		RecyclingEntries: len(r.m.recycling),
		Events:           len(r.m.events),
	}
	for _, e := range r.m.recycling {
		if e.Status == domain.RecyclingApproved {
			stats.CarbonSavedGrams += int64(e.CarbonSavedG)
		}
	}
	return &stats, nil
}

func (r *memStatsRepo) UserSummary(ctx context.Context, userID string) (*domain.UserAccountSummary, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}

	s := domain.UserAccountSummary{
		Name:      u.Name,
		Points:    u.Points,
		Favorites: len(r.m.favorites[userID]),
	}
	for _, item := range r.m.carts[userID] {
		s.CartItems += item.Quantity
		s.CartTotal += item.PriceCents * int64(item.Quantity)
	}
	for _, o := range r.m.orders {
		if o.UserID != userID {
			continue
		}
		s.RecentOrders++
		if o.Status == domain.OrderPending {
			s.PendingOrders++
		}
	}
	return &s, nil
}

func (r *memStatsRepo) RestaurantSummary(ctx context.Context, restaurantID string) (*domain.RestaurantAccountSummary, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	rest, ok := r.m.restaurants[restaurantID]
	if !ok {
		return nil, ErrNotFound
	}

	s := domain.RestaurantAccountSummary{Name: rest.Name}
	for _, p := range r.m.products {
		if p.RestaurantID == restaurantID {
			s.Products++
		}
	}
	for _, o := range r.m.orders {
		if o.RestaurantID != restaurantID {
			continue
		}
		s.Orders++
		switch o.Status {
		case domain.OrderPending:
			s.PendingOrders++
		case domain.OrderDelivered:
			s.RevenueCents += o.TotalCents
		}
	}
	return &s, nil
}
