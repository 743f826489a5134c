package handlers

import (
	"peoplefinder/internal/app"
	"peoplefinder/internal/logger"
	"peoplefinder/internal/repositories"
	"peoplefinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	cacheInvalidation *services.CacheInvalidationService
	sessions          repositories.SessionRepository
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		cacheInvalidation: app.CacheInvalidationService,
		sessions:          app.SessionRepo,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAdmin())
	admin.Post("/cache/flush", h.flushSearchCache)
	admin.Post("/sessions/revoke", h.revokeSessions)
}

func (h *AdminHandler) flushSearchCache(c *fiber.Ctx) error {
	log := h.log.Function("flushSearchCache")

	if err := h.cacheInvalidation.FlushSearchCache(c.Context()); err != nil {
		log.Er("failed to flush search cache", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to flush search cache"})
	}

	return c.JSON(fiber.Map{"message": "success"})
}

// revokeSessions logs every user out at once: rows and cached sessions both
// go, so no cookie issued before the revocation authenticates again. The
// caller's own session is revoked with the rest.
func (h *AdminHandler) revokeSessions(c *fiber.Ctx) error {
	log := h.log.Function("revokeSessions")

	if err := h.sessions.ClearAll(c.Context()); err != nil {
		log.Er("failed to revoke sessions", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to revoke sessions"})
	}

	return c.JSON(fiber.Map{"message": "success"})
}
