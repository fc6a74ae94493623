package handlers

import (
	"github.com/jmoiron/sqlx"

	"secondspin/internal/config"
	"secondspin/internal/media"
	"secondspin/internal/repos"
	"secondspin/internal/services"
)

type Deps struct {
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, uploader media.Uploader) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	authSvc := &services.AuthService{Users: userRepo, JWTSecret: cfg.JWTSecret}
	catalogSvc := services.NewCatalogService(listingRepo, uploader)
	cartSvc := services.NewCartService(cartRepo, listingRepo)
	wishSvc := services.NewWishlistService(wishRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
	}
}
