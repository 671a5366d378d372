package handlers

import (
	"errors"

	"cinegenio/internal/app"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RelevantsHandler struct {
	Handler
	relevants *services.WeeklyRelevantsService
}

func NewRelevantsHandler(app app.App, router fiber.Router) *RelevantsHandler {
	log := logger.New("handlers").File("relevants_handler")
	return &RelevantsHandler{
		relevants: app.Services.WeeklyRelevants,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RelevantsHandler) Register() {
	relevants := h.router.Group("/relevants")
	relevants.Get("", h.get)
	relevants.Post("/refresh", h.refresh)
}

func (h *RelevantsHandler) get(c *fiber.Ctx) error {
	relevants, err := h.relevants.Get(c.UserContext())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Nenhuma lista de relevantes encontrada",
			})
		}
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"relevants": relevants})
}

func (h *RelevantsHandler) refresh(c *fiber.Ctx) error {
	if err := h.relevants.RefreshIfNeeded(c.UserContext()); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
