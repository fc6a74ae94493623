package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"secondspin/internal/apperr"
	"secondspin/internal/auth"
)

// RequireUser verifies the bearer credential and stores the user id in
// Locals("userID"). The token rides either an `Authorization: Bearer <tok>`
// header or a raw `token` header.
func RequireUser(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := extractToken(c)
		if tok == "" {
			return fail(c, "auth.missing", apperr.Auth("Not authorized. Please login again"))
		}
		uid, err := auth.VerifyToken(jwtSecret, tok)
		if err != nil {
			return fail(c, "auth.invalid", apperr.Auth("Invalid token. Please login again"))
		}
		c.Locals("userID", uid)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Get("token")
}

// userID reads the identity RequireUser stored; empty outside guarded routes.
func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userID").(string)
	return uid
}
