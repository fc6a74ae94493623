package domain

// Listing statuses. Inactive listings are hidden from public browse and
// search but stay reachable by id and through owner queries.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Conditions form a closed set; Create falls back to ConditionGood when the
// field is absent.
const (
	ConditionNew     = "New"
	ConditionLikeNew = "Like New"
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
	ConditionPoor    = "Poor"
)

// SellerProfile is the public slice of a user attached to listings.
type SellerProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Listing struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	SubCategory string        `json:"subCategory"`
	Condition   string        `json:"condition"`
	Price       float64       `json:"price"`
	Bestseller  bool          `json:"bestseller"`
	Stock       int           `json:"stock"`
	Sizes       []string      `json:"sizes"`
	Images      []string      `json:"images"`
	Seller      SellerProfile `json:"seller"`
	Status      string        `json:"status"`
	CreatedAt   string        `json:"createdAt"` // RFC3339, set once at creation
}

// ValidCondition reports whether s is one of the closed condition values.
func ValidCondition(s string) bool {
	switch s {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
