package handlers

import (
	"github.com/gofiber/fiber/v2"

	"secondspin/internal/apperr"
	"secondspin/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	data, err := h.Cart.Get(userID(c))
	if err != nil {
		return fail(c, "cart.get", err)
	}
	return ok(c, fiber.Map{"cartData": data})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req struct {
		ItemID string `json:"itemId"`
		Size   string `json:"size"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "cart.add", apperr.Validation("Missing itemId"))
	}
	if err := h.Cart.Add(userID(c), req.ItemID, req.Size); err != nil {
		return fail(c, "cart.add", err)
	}
	return ok(c, fiber.Map{"message": "Added to cart"})
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req struct {
		ItemID   string `json:"itemId"`
		Size     string `json:"size"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "cart.update", apperr.Validation("Missing itemId"))
	}
	if err := h.Cart.Update(userID(c), req.ItemID, req.Size, req.Quantity); err != nil {
		return fail(c, "cart.update", err)
	}
	return ok(c, fiber.Map{"message": "Cart updated"})
}
