package handlers

import (
	"time"

	"peoplefinder/config"
	"peoplefinder/internal/app"
	authController "peoplefinder/internal/controllers/auth"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/upstream"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	controller authController.AuthController
	config     config.Config
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		controller: *app.AuthController,
		config:     app.Config,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	h.router.Post("/login", h.login)
	h.router.Post("/logout", h.middleware.RequireAuth(), h.logout)
	h.router.Get("/session", h.middleware.RequireAuth(), h.getSession)

	temporary := h.router.Group("/temporary")
	temporary.Post("/generate", h.middleware.RequireAdmin(), h.generateTemporary)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	if loginRequest.Username == "" || loginRequest.Password == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "username and password are required"})
	}

	session, user, err := h.controller.Login(c.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": upstream.UserMessage(err, "Login failed")})
	}

	h.setSessionCookie(c, session)
	return c.JSON(fiber.Map{"message": "success", "user": user})
}

// temporaryLogin redeems the one-time token carried in the shareable link.
// Failure leaves the caller logged out on this page; there is no redirect
// to chase.
func (h *AuthHandler) temporaryLogin(c *fiber.Ctx) error {
	username := c.Params("username")
	token := c.Query("token")

	if token == "" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "No token provided", "username": username})
	}

	session, _, err := h.controller.RedeemTemporaryToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{
				"message":  upstream.UserMessage(err, "Invalid or expired token"),
				"username": username,
			})
	}

	h.setSessionCookie(c, session)
	return c.Redirect("/search", fiber.StatusSeeOther)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	log := h.log.Function("logout")

	session := c.Locals("session").(Session)
	user := c.Locals("user").(User)

	if err := h.controller.Logout(c.Context(), session.ID, user); err != nil {
		log.Er("failed to clear session", err, "sessionID", session.ID)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to log out"})
	}

	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *AuthHandler) getSession(c *fiber.Ctx) error {
	user := c.Locals("user").(User)
	if user.ID == "" {
		h.log.Function("getSession").ErMsg("No user found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to get user"})
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *AuthHandler) generateTemporary(c *fiber.Ctx) error {
	log := h.log.Function("generateTemporary")

	var request GenerateTemporaryRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse generate request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse generate request"})
	}

	bearer := c.Locals("token").(string)
	token, loginURL, err := h.controller.GenerateTemporaryLink(
		c.Context(), bearer, request.Username, request.ExpiresInHours)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": upstream.UserMessage(err, "Failed to generate temporary access")})
	}

	return c.JSON(fiber.Map{"message": "success", "token": token, "loginUrl": loginURL})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, session *Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.config.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.config.SessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
}
