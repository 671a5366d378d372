package handlers

import (
	"cinegenio/internal/app"
	. "cinegenio/internal/models"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type SuggestionHandler struct {
	Handler
	recommendation *services.RecommendationService
}

type suggestionRequest struct {
	Category string   `json:"category,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Keywords string   `json:"keywords,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

type predictionRequest struct {
	ID        int       `json:"id"`
	MediaKind MediaKind `json:"tmdbMediaType"`
}

type probabilityRequest struct {
	Title string `json:"title"`
}

type duelRequest struct {
	ID1        int       `json:"id1"`
	MediaKind1 MediaKind `json:"tmdbMediaType1"`
	ID2        int       `json:"id2"`
	MediaKind2 MediaKind `json:"tmdbMediaType2"`
}

func NewSuggestionHandler(app app.App, router fiber.Router) *SuggestionHandler {
	log := logger.New("handlers").File("suggestion_handler")
	return &SuggestionHandler{
		recommendation: app.Services.Recommendation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SuggestionHandler) Register() {
	suggestions := h.router.Group("/suggestions")
	suggestions.Post("/random", h.randomSuggestion)
	suggestions.Post("/personalized", h.personalizedSuggestion)

	h.router.Post("/predict", h.predict)
	h.router.Post("/probability", h.probability)
	h.router.Post("/duel", h.duel)
}

func (h *SuggestionHandler) randomSuggestion(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	recommendation, err := h.recommendation.RandomSuggestion(c.UserContext(), req.Exclude)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"recommendation": recommendation})
}

func (h *SuggestionHandler) personalizedSuggestion(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	filters := services.SuggestionFilters{
		Category: req.Category,
		Genres:   req.Genres,
		Keywords: req.Keywords,
	}

	recommendation, err := h.recommendation.PersonalizedSuggestion(
		c.UserContext(),
		filters,
		req.Exclude,
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"recommendation": recommendation})
}

func (h *SuggestionHandler) predict(c *fiber.Ctx) error {
	var req predictionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ID <= 0 || !req.MediaKind.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id and tmdbMediaType are required",
		})
	}

	recommendation, err := h.recommendation.Prediction(c.UserContext(), req.ID, req.MediaKind)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"recommendation": recommendation})
}

func (h *SuggestionHandler) probability(c *fiber.Ctx) error {
	var req probabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	probability, err := h.recommendation.LoveProbability(c.UserContext(), req.Title)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"probability": probability})
}

func (h *SuggestionHandler) duel(c *fiber.Ctx) error {
	var req duelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ID1 <= 0 || req.ID2 <= 0 || !req.MediaKind1.Valid() || !req.MediaKind2.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "both duel contenders are required",
		})
	}

	result, err := h.recommendation.Duel(
		c.UserContext(),
		req.ID1,
		req.MediaKind1,
		req.ID2,
		req.MediaKind2,
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"duel": result})
}
