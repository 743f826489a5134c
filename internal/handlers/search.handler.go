package handlers

import (
	"peoplefinder/internal/app"
	searchController "peoplefinder/internal/controllers/search"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/searchstate"
	"peoplefinder/internal/upstream"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Handler
	controller *searchController.SearchController
}

func NewSearchHandler(app app.App, router fiber.Router) *SearchHandler {
	log := logger.New("handlers").File("search_handler")
	return &SearchHandler{
		controller: app.SearchController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SearchHandler) Register() {
	search := h.router.Group("/search", h.middleware.RequireAuth())
	search.Post("/", h.submit)
	search.Post("/reset", h.reset)
	search.Post("/page", h.changePage)
}

// searchPage serves /search. The query string is the source of truth for
// the search state: a non-canonical query redirects once to its canonical
// form, so a reload or shared link lands on a stable URL that reproduces
// the same query.
func (h *SearchHandler) searchPage(c *fiber.Ctx) error {
	raw := string(c.Request().URI().QueryString())
	state := searchstate.Decode(raw)

	if canonical := searchstate.Encode(state); canonical != raw {
		return c.Redirect(searchPath(canonical), fiber.StatusSeeOther)
	}

	token := c.Locals("token").(string)
	payload, err := h.controller.Fetch(c.Context(), token, state)
	if err != nil {
		return h.searchError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "success",
		"state":   state,
		"payload": payload,
	})
}

// submit trims and activates the posted filters, then points the client at
// the canonical URL for page 1 of that search.
func (h *SearchHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var filters SearchFilters
	if err := c.BodyParser(&filters); err != nil {
		log.Er("failed to parse search filters", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse search filters"})
	}

	state := searchstate.Submit(filters)
	return c.Redirect(searchPath(searchstate.Encode(state)), fiber.StatusSeeOther)
}

// reset returns to the bare path: no filters, no query string, fetching
// disabled.
func (h *SearchHandler) reset(c *fiber.Ctx) error {
	return c.Redirect(searchPath(searchstate.Encode(searchstate.Reset())), fiber.StatusSeeOther)
}

func (h *SearchHandler) changePage(c *fiber.Ctx) error {
	log := h.log.Function("changePage")

	var request struct {
		Page int `json:"page"`
	}
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse page request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse page request"})
	}

	state := searchstate.Decode(string(c.Request().URI().QueryString()))
	if !state.Active() {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "no active search to page through"})
	}

	state = searchstate.ChangePage(state, request.Page)
	return c.Redirect(searchPath(searchstate.Encode(state)), fiber.StatusSeeOther)
}

// searchError reports a failed fetch as an inline error payload, keeping
// the HTTP-layer failures distinguishable from transport ones.
func (h *SearchHandler) searchError(c *fiber.Ctx, err error) error {
	errorType := "unknown"
	status := fiber.StatusInternalServerError

	switch {
	case upstream.IsServer(err):
		errorType = "http"
		status = fiber.StatusBadGateway
	case upstream.IsNetwork(err):
		errorType = "network"
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"message":   "search failed",
		"errorType": errorType,
		"error":     upstream.UserMessage(err, "Something went wrong."),
	})
}

func searchPath(canonical string) string {
	if canonical == "" {
		return "/search"
	}
	return "/search?" + canonical
}
