package handlers

import (
	"peoplefinder/internal/app"
	"peoplefinder/internal/handlers/middleware"
	"peoplefinder/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	router.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/search", fiber.StatusSeeOther)
	})
	router.Get("/login", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "POST credentials to /api/login"})
	})

	api := router.Group("/api")
	HealthHandler(api, app.Config)

	authHandler := NewAuthHandler(*app, api)
	authHandler.Register()

	searchHandler := NewSearchHandler(*app, api)
	searchHandler.Register()
	router.Get("/search", app.Middleware.RequireAuth(), searchHandler.searchPage)

	NewPeopleHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	// Parameterized route goes last so it never shadows the static pages.
	router.Get("/:username/temporary-login", authHandler.temporaryLogin)

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", app.Middleware.RequireAuth(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
