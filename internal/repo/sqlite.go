package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain"
)

// NewSQLite builds the full set of repository ports on a single database.
func NewSQLite(db *DB) Repos {
	return Repos{
		Products:    &sqliteProductRepo{db: db},
		Restaurants: &sqliteRestaurantRepo{db: db},
		Users:       &sqliteUserRepo{db: db},
		Orders:      &sqliteOrderRepo{db: db},
		Recycling:   &sqliteRecyclingRepo{db: db},
		Events:      &sqliteEventRepo{db: db},
		Stats:       &sqliteStatsRepo{db: db},
	}
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	return limit
}

func parseDBTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// --- products ---

type sqliteProductRepo struct {
	db *DB
}

const productCols = `id, restaurant_id, name, description, category, price_cents, rating, sustainability, image_key, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var createdAt string
	err := row.Scan(&p.ID, &p.RestaurantID, &p.Name, &p.Description, &p.Category,
		&p.PriceCents, &p.Rating, &p.Sustainability, &p.ImageKey, &createdAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseDBTime(createdAt)
	return &p, nil
}

func (r *sqliteProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *sqliteProductRepo) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *sqliteProductRepo) ByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productCols+` FROM products WHERE category = ? ORDER BY rating DESC LIMIT ?`,
		category, defaultLimit(limit))
}

func (r *sqliteProductRepo) TopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productCols+` FROM products ORDER BY rating DESC LIMIT ?`, defaultLimit(limit))
}

func (r *sqliteProductRepo) Cheapest(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productCols+` FROM products ORDER BY price_cents ASC LIMIT ?`, defaultLimit(limit))
}

func (r *sqliteProductRepo) MostSustainable(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productCols+` FROM products ORDER BY sustainability DESC LIMIT ?`, defaultLimit(limit))
}

func (r *sqliteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO products (id, restaurant_id, name, description, category, price_cents, rating, sustainability, image_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.RestaurantID, p.Name, p.Description, p.Category,
		p.PriceCents, p.Rating, p.Sustainability, p.ImageKey)
	return err
}

func (r *sqliteProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.sql.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, category = ?, price_cents = ?, sustainability = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Category, p.PriceCents, p.Sustainability, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.sql.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- restaurants ---

type sqliteRestaurantRepo struct {
	db *DB
}

func (r *sqliteRestaurantRepo) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	var createdAt string
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, name, cuisine, rating, address, created_at FROM restaurants WHERE id = ?`, id,
	).Scan(&rest.ID, &rest.Name, &rest.Cuisine, &rest.Rating, &rest.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rest.CreatedAt = parseDBTime(createdAt)
	return &rest, nil
}

func (r *sqliteRestaurantRepo) TopRated(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, name, cuisine, rating, address, created_at
		 FROM restaurants ORDER BY rating DESC LIMIT ?`, defaultLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		var createdAt string
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Cuisine, &rest.Rating, &rest.Address, &createdAt); err != nil {
			return nil, err
		}
		rest.CreatedAt = parseDBTime(createdAt)
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

// --- users ---

type sqliteUserRepo struct {
	db *DB
}

func (r *sqliteUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	var createdAt string
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT id, name, email, role, points, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Points, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseDBTime(createdAt)
	return &u, nil
}

func (r *sqliteUserRepo) Cart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var raw string
	err := r.db.sql.QueryRowContext(ctx, `SELECT cart FROM users WHERE id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding cart for user %s: %w", userID, err)
	}
	return items, nil
}

func (r *sqliteUserRepo) SaveCart(ctx context.Context, userID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	res, err := r.db.sql.ExecContext(ctx, `UPDATE users SET cart = ? WHERE id = ?`, string(raw), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteUserRepo) Favorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT product_id, name, added_at FROM favorites WHERE user_id = ? ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		var addedAt string
		if err := rows.Scan(&f.ProductID, &f.Name, &addedAt); err != nil {
			return nil, err
		}
		f.AddedAt = parseDBTime(addedAt)
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *sqliteUserRepo) AddFavorite(ctx context.Context, userID string, f domain.Favorite) error {
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO favorites (user_id, product_id, name) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, product_id) DO NOTHING`,
		userID, f.ProductID, f.Name)
	return err
}

func (r *sqliteUserRepo) RemoveFavorite(ctx context.Context, userID, productID string) error {
	_, err := r.db.sql.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (r *sqliteUserRepo) AddPoints(ctx context.Context, userID string, points int) error {
	res, err := r.db.sql.ExecContext(ctx,
		`UPDATE users SET points = points + ? WHERE id = ?`, points, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteUserRepo) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT id, name, points FROM users ORDER BY points DESC LIMIT ?`, defaultLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- orders ---

type sqliteOrderRepo struct {
	db *DB
}

const orderCols = `id, user_id, restaurant_id, status, items, total_cents, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var o domain.Order
	var items, createdAt, updatedAt string
	err := row.Scan(&o.ID, &o.UserID, &o.RestaurantID, &o.Status, &items,
		&o.TotalCents, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("decoding items for order %s: %w", o.ID, err)
	}
	o.CreatedAt = parseDBTime(createdAt)
	o.UpdatedAt = parseDBTime(updatedAt)
	return &o, nil
}

func (r *sqliteOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.sql.QueryRowContext(ctx, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *sqliteOrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *sqliteOrderRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, defaultLimit(limit))
}

func (r *sqliteOrderRepo) RecentByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderCols+` FROM orders WHERE restaurant_id = ? ORDER BY created_at DESC LIMIT ?`,
		restaurantID, defaultLimit(limit))
}

func (r *sqliteOrderRepo) ByStatus(ctx context.Context, restaurantID string, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderCols+` FROM orders WHERE restaurant_id = ? AND status = ? ORDER BY created_at DESC LIMIT ?`,
		restaurantID, status, defaultLimit(limit))
}

func (r *sqliteOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := r.db.sql.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = datetime('now') WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- recycling ---

type sqliteRecyclingRepo struct {
	db *DB
}

const recyclingCols = `id, user_id, material, weight_grams, status, points_awarded, carbon_saved_g, created_at, updated_at`

func scanRecycling(row interface{ Scan(...any) error }) (*domain.RecyclingEntry, error) {
	var e domain.RecyclingEntry
	var createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.UserID, &e.Material, &e.WeightGrams, &e.Status,
		&e.PointsAwarded, &e.CarbonSavedG, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = parseDBTime(createdAt)
	e.UpdatedAt = parseDBTime(updatedAt)
	return &e, nil
}

func (r *sqliteRecyclingRepo) FindByID(ctx context.Context, id string) (*domain.RecyclingEntry, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+recyclingCols+` FROM recycling_entries WHERE id = ?`, id)
	e, err := scanRecycling(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *sqliteRecyclingRepo) list(ctx context.Context, query string, args ...any) ([]domain.RecyclingEntry, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RecyclingEntry
	for rows.Next() {
		e, err := scanRecycling(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *sqliteRecyclingRepo) ByUser(ctx context.Context, userID string, limit int) ([]domain.RecyclingEntry, error) {
	return r.list(ctx,
		`SELECT `+recyclingCols+` FROM recycling_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, defaultLimit(limit))
}

func (r *sqliteRecyclingRepo) Pending(ctx context.Context, limit int) ([]domain.RecyclingEntry, error) {
	return r.list(ctx,
		`SELECT `+recyclingCols+` FROM recycling_entries WHERE status = 'pending' ORDER BY created_at ASC LIMIT ?`,
		defaultLimit(limit))
}

func (r *sqliteRecyclingRepo) UpdateStatus(ctx context.Context, id string, status domain.RecyclingStatus, points int) error {
	res, err := r.db.sql.ExecContext(ctx,
		`UPDATE recycling_entries SET status = ?, points_awarded = ?, updated_at = datetime('now') WHERE id = ?`,
		status, points, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- events ---

type sqliteEventRepo struct {
	db *DB
}

const eventCols = `id, organizer_id, title, description, location, starts_at, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	var e domain.Event
	var startsAt, createdAt string
	err := row.Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location, &startsAt, &createdAt)
	if err != nil {
		return nil, err
	}
	e.StartsAt = parseDBTime(startsAt)
	e.CreatedAt = parseDBTime(createdAt)
	return &e, nil
}

func (r *sqliteEventRepo) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.sql.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *sqliteEventRepo) list(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *sqliteEventRepo) Upcoming(ctx context.Context, limit int) ([]domain.Event, error) {
	return r.list(ctx,
		`SELECT `+eventCols+` FROM events WHERE starts_at >= datetime('now') ORDER BY starts_at ASC LIMIT ?`,
		defaultLimit(limit))
}

func (r *sqliteEventRepo) ByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return r.list(ctx,
		`SELECT `+eventCols+` FROM events WHERE organizer_id = ? ORDER BY starts_at ASC`, organizerID)
}

func (r *sqliteEventRepo) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO events (id, organizer_id, title, description, location, starts_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrganizerID, e.Title, e.Description, e.Location, e.StartsAt.UTC().Format(time.DateTime))
	return err
}

func (r *sqliteEventRepo) Update(ctx context.Context, e *domain.Event) error {
	res, err := r.db.sql.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, location = ?, starts_at = ? WHERE id = ?`,
		e.Title, e.Description, e.Location, e.StartsAt.UTC().Format(time.DateTime), e.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteEventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.sql.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- stats ---

type sqliteStatsRepo struct {
	db *DB
}

func (r *sqliteStatsRepo) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	var stats domain.PlatformStats
	err := r.db.sql.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM restaurants),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM recycling_entries),
			(SELECT COUNT(*) FROM events),
			(SELECT COALESCE(SUM(carbon_saved_g), 0) FROM recycling_entries WHERE status = 'approved')
	`).Scan(&stats.Products, &stats.Restaurants, &stats.Orders,
		&stats.RecyclingEntries, &stats.Events, &stats.CarbonSavedGrams)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *sqliteStatsRepo) UserSummary(ctx context.Context, userID string) (*domain.UserAccountSummary, error) {
	var s domain.UserAccountSummary
	var cart string
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT name, points, cart FROM users WHERE id = ?`, userID,
	).Scan(&s.Name, &s.Points, &cart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(cart), &items); err != nil {
		return nil, fmt.Errorf("decoding cart for user %s: %w", userID, err)
	}
	for _, item := range items {
		s.CartItems += item.Quantity
		s.CartTotal += item.PriceCents * int64(item.Quantity)
	}

	err = r.db.sql.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM favorites WHERE user_id = ?),
			(SELECT COUNT(*) FROM orders WHERE user_id = ?),
			(SELECT COUNT(*) FROM orders WHERE user_id = ? AND status = 'pending')
	`, userID, userID, userID).Scan(&s.Favorites, &s.RecentOrders, &s.PendingOrders)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteStatsRepo) RestaurantSummary(ctx context.Context, restaurantID string) (*domain.RestaurantAccountSummary, error) {
	var s domain.RestaurantAccountSummary
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT name FROM restaurants WHERE id = ?`, restaurantID).Scan(&s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.sql.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products WHERE restaurant_id = ?),
			(SELECT COUNT(*) FROM orders WHERE restaurant_id = ?),
			(SELECT COUNT(*) FROM orders WHERE restaurant_id = ? AND status = 'pending'),
			(SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE restaurant_id = ? AND status = 'delivered')
	`, restaurantID, restaurantID, restaurantID, restaurantID,
	).Scan(&s.Products, &s.Orders, &s.PendingOrders, &s.RevenueCents)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
