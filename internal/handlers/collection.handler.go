package handlers

import (
	"strconv"

	"cinegenio/internal/app"
	collectionController "cinegenio/internal/controllers/collection"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type CollectionHandler struct {
	Handler
	collectionController collectionController.CollectionControllerInterface
}

func NewCollectionHandler(app app.App, router fiber.Router) *CollectionHandler {
	log := logger.New("handlers").File("collection_handler")
	return &CollectionHandler{
		collectionController: app.Controllers.Collection,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CollectionHandler) Register() {
	collection := h.router.Group("/collection")
	collection.Get("", h.listWatched)
	collection.Post("", h.rateItem)
	collection.Post("/from-watchlist", h.addToCollection)
	collection.Delete("/:id", h.removeWatched)

	watchlist := h.router.Group("/watchlist")
	watchlist.Get("", h.listWatchlist)
	watchlist.Post("", h.addToWatchlist)
	watchlist.Delete("/:id", h.removeFromWatchlist)
}

func (h *CollectionHandler) listWatched(c *fiber.Ctx) error {
	items, err := h.collectionController.ListWatched(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *CollectionHandler) rateItem(c *fiber.Ctx) error {
	var req collectionController.RateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.collectionController.RateItem(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

func (h *CollectionHandler) addToCollection(c *fiber.Ctx) error {
	var req collectionController.RateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.collectionController.AddToCollection(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

func (h *CollectionHandler) removeWatched(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	if err := h.collectionController.RemoveWatched(c.UserContext(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *CollectionHandler) listWatchlist(c *fiber.Ctx) error {
	items, err := h.collectionController.ListWatchlist(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *CollectionHandler) addToWatchlist(c *fiber.Ctx) error {
	var req collectionController.WatchlistAddRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.collectionController.AddToWatchlist(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

func (h *CollectionHandler) removeFromWatchlist(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	if err := h.collectionController.RemoveFromWatchlist(c.UserContext(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
