package handlers

import (
	"github.com/gofiber/fiber/v2"

	"secondspin/internal/apperr"
	applog "secondspin/internal/log"
)

// ok writes the uniform success envelope. Extra payload keys ride alongside
// the success flag.
func ok(c *fiber.Ctx, data fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range data {
		body[k] = v
	}
	return c.JSON(body)
}

// fail converts any error into the uniform failure envelope. The transport
// status stays 200 on every handled route; callers must inspect the success
// flag, not the status code.
func fail(c *fiber.Ctx, action string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindAuth, apperr.KindForbidden:
		applog.Security(c, action, map[string]any{"reason": err.Error()})
	case apperr.KindInternal:
		applog.Error(c, action, err, nil)
	}
	return c.JSON(fiber.Map{"success": false, "message": apperr.Message(err)})
}
