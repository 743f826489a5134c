package middleware

import (
	"strings"
	"sync/atomic"

	"peoplefinder/config"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type Middleware struct {
	sessionRepo repositories.SessionRepository
	config      config.Config
	log         logger.Logger
	ready       *atomic.Bool
}

func New(config config.Config, sessionRepo repositories.SessionRepository) Middleware {
	return Middleware{
		sessionRepo: sessionRepo,
		config:      config,
		log:         logger.New("middleware"),
		ready:       &atomic.Bool{},
	}
}

// SetReady marks the startup session restore as finished; until then every
// guarded route reports loading instead of redirecting.
func (m Middleware) SetReady() {
	m.ready.Store(true)
}

func (m Middleware) RequireAuth() fiber.Handler {
	return m.guard(false)
}

func (m Middleware) RequireAdmin() fiber.Handler {
	return m.guard(true)
}

func (m Middleware) guard(requireAdmin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, session, user := m.resolveSession(c)

		switch Resolve(state, requireAdmin) {
		case ShowLoading:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"message": "session restore in progress"})

		case RedirectLogin:
			if isAPIRequest(c) {
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"message": "authentication required"})
			}
			return c.Redirect("/login", fiber.StatusSeeOther)

		case RedirectSearch:
			if isAPIRequest(c) {
				return c.Status(fiber.StatusForbidden).
					JSON(fiber.Map{"message": "admin access required"})
			}
			return c.Redirect("/search", fiber.StatusSeeOther)
		}

		c.Locals("session", *session)
		c.Locals("user", user)
		c.Locals("token", session.Token)

		return c.Next()
	}
}

// resolveSession turns the request cookie into a guard state. Any failure
// along the way (no cookie, unknown session, corrupt stored pair) lands in
// the same place: not authenticated.
func (m Middleware) resolveSession(c *fiber.Ctx) (GuardState, *Session, User) {
	log := m.log.Function("resolveSession")

	if !m.ready.Load() {
		return GuardState{SessionLoading: true}, nil, User{}
	}

	sessionID := c.Cookies(m.config.SessionCookieName)
	if sessionID == "" {
		return GuardState{}, nil, User{}
	}

	session, err := m.sessionRepo.GetByID(c.Context(), sessionID)
	if err != nil {
		log.Er("failed to resolve session", err, "sessionID", sessionID)
		return GuardState{}, nil, User{}
	}
	if session == nil {
		return GuardState{}, nil, User{}
	}

	user, err := session.User()
	if err != nil {
		log.Er("session user record did not parse", err, "sessionID", sessionID)
		return GuardState{}, nil, User{}
	}

	return GuardState{Authenticated: true, IsAdmin: user.IsAdmin()}, session, user
}

func isAPIRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api") || strings.HasPrefix(c.Path(), "/ws")
}
