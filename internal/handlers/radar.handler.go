package handlers

import (
	"cinegenio/internal/app"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type RadarHandler struct {
	Handler
	radar *services.RadarService
}

func NewRadarHandler(app app.App, router fiber.Router) *RadarHandler {
	log := logger.New("handlers").File("radar_handler")
	return &RadarHandler{
		radar: app.Services.Radar,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RadarHandler) Register() {
	radar := h.router.Group("/radar")
	radar.Get("/general", h.general)
	radar.Get("/relevant", h.relevant)
	radar.Post("/refresh", h.refresh)
}

func (h *RadarHandler) general(c *fiber.Ctx) error {
	items, err := h.radar.GetGeneral(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *RadarHandler) relevant(c *fiber.Ctx) error {
	items, err := h.radar.GetRelevant(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// refresh regenerates both radar flavors when their windows have elapsed.
// Fresh caches make this a no-op, so the route is safe to hit on page load.
func (h *RadarHandler) refresh(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if err := h.radar.RefreshGeneralIfNeeded(ctx); err != nil {
		return errorResponse(c, err)
	}
	if err := h.radar.RefreshRelevantIfNeeded(ctx); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
