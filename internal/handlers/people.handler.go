package handlers

import (
	"errors"

	"peoplefinder/internal/app"
	searchController "peoplefinder/internal/controllers/search"
	"peoplefinder/internal/logger"
	"peoplefinder/internal/searchstate"
	"peoplefinder/internal/upstream"
	"peoplefinder/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PeopleHandler struct {
	Handler
	controller *searchController.SearchController
}

func NewPeopleHandler(app app.App, router fiber.Router) *PeopleHandler {
	log := logger.New("handlers").File("people_handler")
	return &PeopleHandler{
		controller: app.SearchController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PeopleHandler) Register() {
	people := h.router.Group("/people", h.middleware.RequireAuth())
	people.Get("/search", h.search)
	people.Get("/states", h.getStates)
	people.Get("/stats", h.getStats)
	people.Get("/:id", h.getPerson)
}

// search is the raw fetcher endpoint: it resolves whatever state the query
// string describes without canonicalizing the URL first.
func (h *PeopleHandler) search(c *fiber.Ctx) error {
	state := searchstate.Decode(string(c.Request().URI().QueryString()))
	token := c.Locals("token").(string)

	payload, err := h.controller.Fetch(c.Context(), token, state)
	if err != nil {
		h.log.Function("search").Er("search failed", err)
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": "search failed", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "payload": payload})
}

func (h *PeopleHandler) getStates(c *fiber.Ctx) error {
	token := c.Locals("token").(string)

	states, err := h.controller.States(c.Context(), token)
	if err != nil {
		h.log.Function("getStates").Er("failed to get states", err)
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": "failed to get states"})
	}

	return c.JSON(fiber.Map{"message": "success", "states": states})
}

func (h *PeopleHandler) getStats(c *fiber.Ctx) error {
	token := c.Locals("token").(string)

	stats, err := h.controller.Stats(c.Context(), token)
	if err != nil {
		h.log.Function("getStats").Er("failed to get stats", err)
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": "failed to get stats"})
	}

	return c.JSON(fiber.Map{"message": "success", "stats": stats})
}

func (h *PeopleHandler) getPerson(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "person ID is required"})
	}

	token := c.Locals("token").(string)
	person, err := h.controller.PersonByID(c.Context(), token, id)
	if err != nil {
		h.log.Function("getPerson").Er("failed to get person", err, "personID", id)

		var serverErr *upstream.ServerError
		if errors.As(err, &serverErr) && serverErr.StatusCode == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"message": "person not found"})
		}

		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"message": upstream.UserMessage(err, "failed to get person")})
	}

	return c.JSON(fiber.Map{
		"message": "success",
		"person":  person,
		"display": fiber.Map{"dob": utils.FormatDOB(person.DOB)},
	})
}
