package services

import (
	"secondspin/internal/apperr"
	"secondspin/internal/repos"
)

type CartService struct {
	Carts    *repos.CartRepo
	Listings *repos.ListingRepo
}

func NewCartService(carts *repos.CartRepo, listings *repos.ListingRepo) *CartService {
	return &CartService{Carts: carts, Listings: listings}
}

// Add puts one unit of (listing, size) into the user's server cart. The
// listing must exist at add time; a size label is mandatory.
func (s *CartService) Add(userID, listingID, size string) error {
	if size == "" {
		return apperr.Validation("Select a product size")
	}
	if _, err := s.Listings.Get(listingID); err != nil {
		return apperr.NotFound("Product not found")
	}
	if err := s.Carts.Add(userID, listingID, size); err != nil {
		return apperr.Internal("Could not update cart", err)
	}
	return nil
}

// Update pins the quantity for (listing, size); zero removes the entry.
// No existence check here: a cart row may outlive its listing.
func (s *CartService) Update(userID, listingID, size string, qty int) error {
	if size == "" {
		return apperr.Validation("Select a product size")
	}
	if qty < 0 {
		return apperr.Validation("Quantity cannot be negative")
	}
	if err := s.Carts.Set(userID, listingID, size, qty); err != nil {
		return apperr.Internal("Could not update cart", err)
	}
	return nil
}

func (s *CartService) Get(userID string) (repos.CartData, error) {
	data, err := s.Carts.Get(userID)
	if err != nil {
		return nil, apperr.Internal("Could not load cart", err)
	}
	return data, nil
}
