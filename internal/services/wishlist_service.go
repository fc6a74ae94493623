package services

import (
	"secondspin/internal/apperr"
	"secondspin/internal/repos"
)

type WishlistService struct {
	Repo *repos.WishlistRepo
}

func NewWishlistService(r *repos.WishlistRepo) *WishlistService { return &WishlistService{Repo: r} }

// Save adds a listing to the user's wishlist and returns the updated list.
func (s *WishlistService) Save(userID, listingID string) ([]string, error) {
	if err := s.Repo.Add(userID, listingID); err != nil {
		return nil, apperr.Internal("Could not update wishlist", err)
	}
	return s.List(userID)
}

// Unsave removes a listing and returns the updated list.
func (s *WishlistService) Unsave(userID, listingID string) ([]string, error) {
	if err := s.Repo.Remove(userID, listingID); err != nil {
		return nil, apperr.Internal("Could not update wishlist", err)
	}
	return s.List(userID)
}

func (s *WishlistService) List(userID string) ([]string, error) {
	ids, err := s.Repo.List(userID)
	if err != nil {
		return nil, apperr.Internal("Could not load wishlist", err)
	}
	return ids, nil
}
