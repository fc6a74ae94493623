package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}

// Profile returns the public projection embedded in listings.
func (u User) Profile() SellerProfile {
	return SellerProfile{ID: u.ID, Name: u.Name, Email: u.Email}
}
