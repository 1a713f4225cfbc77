package handlers

import (
	"context"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/realtime"
	"github.com/saeid-a/FitProBack/internal/services"
)

type chatService interface {
	History(ctx context.Context, actorID, peerID string) []models.DirectMessage
	Send(ctx context.Context, actorID string, input services.SendMessageInput) (*models.DirectMessage, error)
}

type ChatHandler struct {
	service chatService
	hub     *realtime.Hub
}

func NewChatHandler(service chatService, hub *realtime.Hub) *ChatHandler {
	return &ChatHandler{
		service: service,
		hub:     hub,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required,uuid"`
	Text       string `json:"text" validate:"required,notblank,max=4000"`
	ClientID   string `json:"clientId" validate:"omitempty,uuid"`
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"messages": h.service.History(c.UserContext(), userID, c.Params("peerId"))})
}

// Send stores the message; both parties receive it over their sockets too.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req sendMessageRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	msg, err := h.service.Send(c.UserContext(), userID, services.SendMessageInput{
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		ClientID:   req.ClientID,
	})
	if err != nil {
		return serviceError(c, "send message", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

func (h *ChatHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return errorResponse(c, fiber.StatusUpgradeRequired, i18n.UpgradeRequired)
	}
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := realtime.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}
