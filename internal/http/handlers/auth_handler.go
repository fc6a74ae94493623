package handlers

import (
	"github.com/gofiber/fiber/v2"

	"secondspin/internal/apperr"
	applog "secondspin/internal/log"
	"secondspin/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "auth.register", apperr.Validation("Missing registration fields"))
	}
	tok, err := h.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"email": req.Email})
	return ok(c, fiber.Map{"token": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "auth.login", apperr.Validation("Missing credentials"))
	}
	tok, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, "auth.login", err)
	}
	applog.Audit(c, "auth.login", map[string]any{"email": req.Email})
	return ok(c, fiber.Map{"token": tok})
}
