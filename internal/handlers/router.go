package handlers

import (
	"errors"

	"cinegenio/internal/app"
	collectionController "cinegenio/internal/controllers/collection"
	"cinegenio/internal/handlers/middleware"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	api.Use(app.Middleware.TraceID())
	api.Use(app.Middleware.RateLimit())

	HealthHandler(api, app.Config)
	NewCollectionHandler(*app, api).Register()
	NewSuggestionHandler(*app, api).Register()
	NewRadarHandler(*app, api).Register()
	NewRelevantsHandler(*app, api).Register()
	NewChallengeHandler(*app, api).Register()
	NewChatHandler(*app, api).Register()

	return nil
}

// statusForError maps domain errors onto HTTP statuses: a title the catalog
// cannot confirm is 404, malformed AI output and catalog failures are 502,
// validation problems are 400.
func statusForError(err error) int {
	var unresolvable *services.UnresolvableRecommendationError
	switch {
	case errors.As(err, &unresolvable):
		return fiber.StatusNotFound
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, collectionController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrMalformedAIOutput),
		errors.Is(err, services.ErrCatalogUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, collectionController.ErrValidation),
		errors.Is(err, services.ErrStepOutOfRange):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	message := "Internal server error"
	switch status {
	case fiber.StatusNotFound, fiber.StatusBadRequest, fiber.StatusBadGateway:
		message = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
