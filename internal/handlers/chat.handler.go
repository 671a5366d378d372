package handlers

import (
	"cinegenio/internal/app"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	Handler
	chat *services.ChatService
}

type chatMessageRequest struct {
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
	Message   string     `json:"message"`
}

func NewChatHandler(app app.App, router fiber.Router) *ChatHandler {
	log := logger.New("handlers").File("chat_handler")
	return &ChatHandler{
		chat: app.Services.Chat,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ChatHandler) Register() {
	chats := h.router.Group("/chats")
	chats.Get("", h.listSessions)
	chats.Post("", h.sendMessage)
	chats.Get("/:id", h.getSession)
	chats.Delete("/:id", h.deleteSession)
}

func (h *ChatHandler) listSessions(c *fiber.Ctx) error {
	sessions, err := h.chat.ListSessions(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *ChatHandler) sendMessage(c *fiber.Ctx) error {
	var req chatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	session, err := h.chat.SendMessage(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *ChatHandler) getSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	session, err := h.chat.GetSession(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (h *ChatHandler) deleteSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	if err := h.chat.DeleteSession(c.UserContext(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
