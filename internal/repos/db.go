package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Ensure demo accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  sub_category TEXT NOT NULL,
  condition TEXT NOT NULL DEFAULT 'Good' CHECK (condition IN ('New','Like New','Good','Fair','Poor')),
  price NUMERIC NOT NULL CHECK (price >= 0),
  bestseller INTEGER NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 1 CHECK (stock >= 0),
  sizes_json TEXT NOT NULL DEFAULT '[]',
  images_json TEXT NOT NULL,
  seller_id TEXT NOT NULL REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','inactive')),
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings(status, created_at);
CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_seller ON listings(seller_id);

-- Carts: one row per (user, listing, size). listing_id intentionally carries
-- no foreign key: a deleted listing leaves its cart rows behind, and pricing
-- for such rows resolves to zero on the client.
CREATE TABLE IF NOT EXISTS cart_items(
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL,
  size TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  updated_at TEXT,
  PRIMARY KEY(user_id, listing_id, size)
);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlist_items(
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL,
  created_at TEXT,
  PRIMARY KEY(user_id, listing_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures two demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Hash string
	}
	mk := func(id, email, name, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice@secondspin.test", "Alice", "Passw0rd!"),
		mk("u-bob", "bob@secondspin.test", "Bob", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash)
			VALUES(?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Println("[seed] demo users ensured")
	return nil
}
