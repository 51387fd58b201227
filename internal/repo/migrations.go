package repo

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create marketplace core tables",
		SQL: `
			CREATE TABLE restaurants (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				cuisine     TEXT NOT NULL DEFAULT '',
				rating      REAL NOT NULL DEFAULT 0,
				address     TEXT NOT NULL DEFAULT '',
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE products (
				id             TEXT PRIMARY KEY,
				restaurant_id  TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
				name           TEXT NOT NULL,
				description    TEXT NOT NULL DEFAULT '',
				category       TEXT NOT NULL DEFAULT '',
				price_cents    INTEGER NOT NULL DEFAULT 0,
				rating         REAL NOT NULL DEFAULT 0,
				sustainability REAL NOT NULL DEFAULT 0,
				image_key      TEXT NOT NULL DEFAULT '',
				created_at     TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_products_restaurant ON products (restaurant_id);
			CREATE INDEX idx_products_category ON products (category);

			CREATE TABLE users (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				email       TEXT NOT NULL DEFAULT '',
				role        TEXT NOT NULL DEFAULT 'customer',
				points      INTEGER NOT NULL DEFAULT 0,
				cart        TEXT NOT NULL DEFAULT '[]',
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE favorites (
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				product_id  TEXT NOT NULL,
				name        TEXT NOT NULL DEFAULT '',
				added_at    TEXT NOT NULL DEFAULT (datetime('now')),
				PRIMARY KEY (user_id, product_id)
			);
		`,
	},
	{
		Version: 2,
		Name:    "create orders, recycling and events",
		SQL: `
			CREATE TABLE orders (
				id             TEXT PRIMARY KEY,
				user_id        TEXT NOT NULL,
				restaurant_id  TEXT NOT NULL,
				status         TEXT NOT NULL DEFAULT 'pending',
				items          TEXT NOT NULL DEFAULT '[]',
				total_cents    INTEGER NOT NULL DEFAULT 0,
				created_at     TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_orders_user ON orders (user_id, created_at);
			CREATE INDEX idx_orders_restaurant ON orders (restaurant_id, status);

			CREATE TABLE recycling_entries (
				id              TEXT PRIMARY KEY,
				user_id         TEXT NOT NULL,
				material        TEXT NOT NULL,
				weight_grams    INTEGER NOT NULL DEFAULT 0,
				status          TEXT NOT NULL DEFAULT 'pending',
				points_awarded  INTEGER NOT NULL DEFAULT 0,
				carbon_saved_g  INTEGER NOT NULL DEFAULT 0,
				created_at      TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_recycling_user ON recycling_entries (user_id);
			CREATE INDEX idx_recycling_status ON recycling_entries (status);

			CREATE TABLE events (
				id            TEXT PRIMARY KEY,
				organizer_id  TEXT NOT NULL,
				title         TEXT NOT NULL,
				description   TEXT NOT NULL DEFAULT '',
				location      TEXT NOT NULL DEFAULT '',
				starts_at     TEXT NOT NULL,
				created_at    TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_events_organizer ON events (organizer_id);
			CREATE INDEX idx_events_starts ON events (starts_at);
		`,
	},
	{
		Version: 3,
		Name:    "create conversation history",
		SQL: `
			CREATE TABLE conversations (
				id          TEXT PRIMARY KEY,
				key         TEXT NOT NULL UNIQUE,
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE conversation_messages (
				id               INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id  TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
				role             TEXT NOT NULL,
				content          TEXT NOT NULL DEFAULT '',
				name             TEXT NOT NULL DEFAULT '',
				tool_call_id     TEXT NOT NULL DEFAULT '',
				tool_calls       TEXT,
				created_at       TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_conv_messages ON conversation_messages (conversation_id, id);
		`,
	},
}
