package repos

import (
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartData maps listing id -> size label -> quantity, the shape the client
// mirrors locally.
type CartData map[string]map[string]int

func (r *CartRepo) Get(userID string) (CartData, error) {
	type row struct {
		ListingID string `db:"listing_id"`
		Size      string `db:"size"`
		Qty       int    `db:"qty"`
	}
	var rows []row
	if err := r.db.Select(&rows, `
	  SELECT listing_id, size, qty FROM cart_items WHERE user_id = ?
	`, userID); err != nil {
		return nil, err
	}
	data := CartData{}
	for _, it := range rows {
		if data[it.ListingID] == nil {
			data[it.ListingID] = map[string]int{}
		}
		data[it.ListingID][it.Size] = it.Qty
	}
	return data, nil
}

// Add increments the quantity for (listing, size) by one, creating the row
// when absent.
func (r *CartRepo) Add(userID, listingID, size string) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(user_id, listing_id, size, qty, updated_at)
	  VALUES(?,?,?,1,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, listing_id, size) DO UPDATE
	  SET qty = cart_items.qty + 1, updated_at = CURRENT_TIMESTAMP
	`, userID, listingID, size)
	return err
}

// Set pins the quantity for (listing, size); zero or less removes the row.
func (r *CartRepo) Set(userID, listingID, size string, qty int) error {
	if qty <= 0 {
		_, err := r.db.Exec(`
		  DELETE FROM cart_items WHERE user_id=? AND listing_id=? AND size=?
		`, userID, listingID, size)
		return err
	}
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(user_id, listing_id, size, qty, updated_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, listing_id, size) DO UPDATE
	  SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, userID, listingID, size, qty)
	return err
}
