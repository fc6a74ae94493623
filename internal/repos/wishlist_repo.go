package repos

import (
	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Add(userID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(user_id, listing_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, listing_id) DO NOTHING
	`, userID, listingID)
	return err
}

func (r *WishlistRepo) Remove(userID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	return err
}

func (r *WishlistRepo) List(userID string) ([]string, error) {
	ids := []string{}
	err := r.db.Select(&ids, `
	  SELECT listing_id FROM wishlist_items WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	return ids, err
}
