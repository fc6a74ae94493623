package repos

import (
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"

	"secondspin/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// listingRow is the flat row shape; sizes and images live as JSON text,
// the seller profile comes from a join.
type listingRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Category    string  `db:"category"`
	SubCategory string  `db:"sub_category"`
	Condition   string  `db:"condition"`
	Price       float64 `db:"price"`
	Bestseller  bool    `db:"bestseller"`
	Stock       int     `db:"stock"`
	SizesJSON   string  `db:"sizes_json"`
	ImagesJSON  string  `db:"images_json"`
	SellerID    string  `db:"seller_id"`
	SellerName  string  `db:"seller_name"`
	SellerEmail string  `db:"seller_email"`
	Status      string  `db:"status"`
	CreatedAt   string  `db:"created_at"`
}

const listingCols = `
  l.id, l.name, l.description, l.category, l.sub_category, l.condition,
  l.price, l.bestseller, l.stock, l.sizes_json, l.images_json,
  l.seller_id, COALESCE(u.name,'') AS seller_name, COALESCE(u.email,'') AS seller_email,
  l.status, l.created_at`

func (r listingRow) toDomain() domain.Listing {
	var sizes, images []string
	_ = json.Unmarshal([]byte(r.SizesJSON), &sizes)
	_ = json.Unmarshal([]byte(r.ImagesJSON), &images)
	if sizes == nil {
		sizes = []string{}
	}
	return domain.Listing{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		SubCategory: r.SubCategory,
		Condition:   r.Condition,
		Price:       r.Price,
		Bestseller:  r.Bestseller,
		Stock:       r.Stock,
		Sizes:       sizes,
		Images:      images,
		Seller:      domain.SellerProfile{ID: r.SellerID, Name: r.SellerName, Email: r.SellerEmail},
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

func toDomainAll(rows []listingRow) []domain.Listing {
	out := make([]domain.Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

func (r *ListingRepo) Insert(l domain.Listing) error {
	sizes, err := json.Marshal(l.Sizes)
	if err != nil {
		return err
	}
	images, err := json.Marshal(l.Images)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO listings(
	    id, name, description, category, sub_category, condition,
	    price, bestseller, stock, sizes_json, images_json,
	    seller_id, status, created_at
	  ) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, l.ID, l.Name, l.Description, l.Category, l.SubCategory, l.Condition,
		l.Price, l.Bestseller, l.Stock, string(sizes), string(images),
		l.Seller.ID, l.Status, l.CreatedAt)
	return err
}

// Get returns a listing by id regardless of status or ownership; callers
// decide visibility. sql.ErrNoRows passes through when the id is absent.
func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var row listingRow
	err := r.db.Get(&row, `
	  SELECT `+listingCols+`
	  FROM listings l LEFT JOIN users u ON u.id = l.seller_id
	  WHERE l.id = ?
	`, id)
	if err != nil {
		return domain.Listing{}, err
	}
	return row.toDomain(), nil
}

func (r *ListingRepo) ListActive() ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingCols+`
	  FROM listings l LEFT JOIN users u ON u.id = l.seller_id
	  WHERE l.status = 'active'
	  ORDER BY l.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return toDomainAll(rows), nil
}

// ListBySeller returns every listing owned by sellerID, inactive ones
// included, newest-first.
func (r *ListingRepo) ListBySeller(sellerID string) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingCols+`
	  FROM listings l LEFT JOIN users u ON u.id = l.seller_id
	  WHERE l.seller_id = ?
	  ORDER BY l.created_at DESC
	`, sellerID)
	if err != nil {
		return nil, err
	}
	return toDomainAll(rows), nil
}

func (r *ListingRepo) ListByCategory(category string) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingCols+`
	  FROM listings l LEFT JOIN users u ON u.id = l.seller_id
	  WHERE l.category = ? AND l.status = 'active'
	  ORDER BY l.created_at DESC
	`, category)
	if err != nil {
		return nil, err
	}
	return toDomainAll(rows), nil
}

// escapeLike quotes LIKE metacharacters so a query matches them literally.
var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches q case-insensitively as a literal substring of name,
// description, category or sub-category, active listings only.
func (r *ListingRepo) Search(q string) ([]domain.Listing, error) {
	like := "%" + escapeLike.Replace(strings.ToLower(q)) + "%"
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingCols+`
	  FROM listings l LEFT JOIN users u ON u.id = l.seller_id
	  WHERE l.status = 'active'
	    AND (LOWER(l.name) LIKE ? ESCAPE '\' OR LOWER(l.description) LIKE ? ESCAPE '\'
	         OR LOWER(l.category) LIKE ? ESCAPE '\' OR LOWER(l.sub_category) LIKE ? ESCAPE '\')
	  ORDER BY l.created_at DESC
	`, like, like, like, like)
	if err != nil {
		return nil, err
	}
	return toDomainAll(rows), nil
}

// Update rewrites every mutable column. Seller and created_at never change.
func (r *ListingRepo) Update(l domain.Listing) error {
	sizes, err := json.Marshal(l.Sizes)
	if err != nil {
		return err
	}
	images, err := json.Marshal(l.Images)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  UPDATE listings SET
	    name = ?, description = ?, category = ?, sub_category = ?, condition = ?,
	    price = ?, bestseller = ?, stock = ?, sizes_json = ?, images_json = ?, status = ?
	  WHERE id = ?
	`, l.Name, l.Description, l.Category, l.SubCategory, l.Condition,
		l.Price, l.Bestseller, l.Stock, string(sizes), string(images), l.Status, l.ID)
	return err
}

func (r *ListingRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	return err
}
