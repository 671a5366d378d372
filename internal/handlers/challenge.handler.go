package handlers

import (
	"strconv"

	"cinegenio/internal/app"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ChallengeHandler struct {
	Handler
	challenge *services.ChallengeService
}

func NewChallengeHandler(app app.App, router fiber.Router) *ChallengeHandler {
	log := logger.New("handlers").File("challenge_handler")
	return &ChallengeHandler{
		challenge: app.Services.Challenge,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ChallengeHandler) Register() {
	challenge := h.router.Group("/challenge")
	challenge.Get("", h.current)
	challenge.Get("/history", h.history)
	challenge.Post("/:weekId/steps/:index/toggle", h.toggleStep)
}

// current returns this week's challenge, generating it on first access.
func (h *ChallengeHandler) current(c *fiber.Ctx) error {
	challenge, err := h.challenge.GetOrCreate(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"challenge": challenge})
}

func (h *ChallengeHandler) history(c *fiber.Ctx) error {
	challenges, err := h.challenge.History(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"challenges": challenges})
}

func (h *ChallengeHandler) toggleStep(c *fiber.Ctx) error {
	weekID := c.Params("weekId")
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step index",
		})
	}

	challenge, err := h.challenge.ToggleStep(c.UserContext(), weekID, index)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"challenge": challenge})
}
