package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"secondspin/internal/config"
	"secondspin/internal/http/handlers"
	applog "secondspin/internal/log"
	"secondspin/internal/media"
	"secondspin/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Unexpected faults still answer with the envelope, never a
			// transport-level failure.
			applog.Error(c, "server.error", err, nil)
			return c.JSON(fiber.Map{"success": false, "message": "Something went wrong. Please try again."})
		},
	})
	// Global body size guard: four image slots plus fields
	app.Server().MaxRequestBodySize = 25 << 20 // 25 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New()) // the SPA runs on its own origin
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/media/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many requests. Please retry soon."})
		},
	}))

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	uploader := media.NewDiskUploader(mediaDir, cfg.MediaBaseURL)
	deps := handlers.NewDeps(db, cfg, uploader)
	requireUser := handlers.RequireUser(cfg.JWTSecret)

	// ---------- Routes ----------
	user := app.Group("/api/user")
	user.Post("/register", limiter.New(limiter.Config{Max: 10, Expiration: 10 * time.Minute}), deps.AuthHandler.Register)
	user.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	user.Post("/wishlist/get", requireUser, deps.WishlistHandler.Get)
	user.Post("/wishlist/add", requireUser, deps.WishlistHandler.Add)
	user.Post("/wishlist/remove", requireUser, deps.WishlistHandler.Remove)

	product := app.Group("/api/product")
	product.Get("/list", deps.ProductHandler.List)
	product.Post("/single", deps.ProductHandler.Single)
	product.Get("/category/:category", deps.ProductHandler.ByCategory)
	product.Get("/search/:query", deps.ProductHandler.Search)
	product.Post("/add", requireUser, deps.ProductHandler.Add)
	product.Get("/my-products", requireUser, deps.ProductHandler.MyProducts)
	product.Post("/update", requireUser, deps.ProductHandler.Update)
	product.Post("/remove", requireUser, deps.ProductHandler.Remove)

	cart := app.Group("/api/cart", requireUser)
	cart.Post("/get", deps.CartHandler.Get)
	cart.Post("/add", deps.CartHandler.Add)
	cart.Post("/update", deps.CartHandler.Update)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Route not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
