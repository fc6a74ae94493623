package handlers

import (
	"github.com/gofiber/fiber/v2"

	"secondspin/internal/apperr"
	"secondspin/internal/services"
	"secondspin/internal/validate"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) Get(c *fiber.Ctx) error {
	ids, err := h.Wish.List(userID(c))
	if err != nil {
		return fail(c, "wishlist.get", err)
	}
	return ok(c, fiber.Map{"wishlist": ids})
}

func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	pid, err := wishlistProductID(c)
	if err != nil {
		return fail(c, "wishlist.add", err)
	}
	ids, werr := h.Wish.Save(userID(c), pid)
	if werr != nil {
		return fail(c, "wishlist.add", werr)
	}
	return ok(c, fiber.Map{"wishlist": ids})
}

func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	pid, err := wishlistProductID(c)
	if err != nil {
		return fail(c, "wishlist.remove", err)
	}
	ids, werr := h.Wish.Unsave(userID(c), pid)
	if werr != nil {
		return fail(c, "wishlist.remove", werr)
	}
	return ok(c, fiber.Map{"wishlist": ids})
}

func wishlistProductID(c *fiber.Ctx) (string, error) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return "", apperr.Validation("Missing productId")
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return "", apperr.Validation("Missing productId")
	}
	return pid, nil
}
