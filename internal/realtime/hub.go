package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/services"
)

const (
	clientBufferSize = 32
	sendTimeout      = 10 * time.Second
)

const (
	EventMessage = "message"
	EventError   = "error"
)

// Hub routes events to the open connections of a user. Run owns the client
// map; everything else talks to it through channels.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	replies    chan reply
	done       chan struct{}
}

type delivery struct {
	recipients []string
	payload    []byte
}

type reply struct {
	client  *Client
	payload []byte
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Envelope is the frame pushed to clients. Message carries the stored record,
// whose clientId lets the sender replace its optimistic copy.
type Envelope struct {
	Type    string                `json:"type"`
	Message *models.DirectMessage `json:"message,omitempty"`
	Error   string                `json:"error,omitempty"`
	// ClientID echoes the correlation id of a failed send.
	ClientID string `json:"clientId,omitempty"`
}

type incomingFrame struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	ClientID   string `json:"clientId"`
}

type messageSender interface {
	Send(ctx context.Context, actorID string, input services.SendMessageInput) (*models.DirectMessage, error)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 64),
		replies:    make(chan reply, 64),
		done:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, clientBufferSize),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for userID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.remove(client)
		case d := <-h.broadcast:
			for _, userID := range d.recipients {
				h.sendToUser(userID, d.payload)
			}
		case r := <-h.replies:
			if _, ok := h.clients[r.client.userID][r.client]; ok {
				select {
				case r.client.send <- r.payload:
				default:
				}
			}
		}
	}
}

// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishMessage pushes a stored message to the receiver and echoes it to
// the sender's other connections.
func (h *Hub) PublishMessage(msg models.DirectMessage) {
	payload, err := json.Marshal(Envelope{Type: EventMessage, Message: &msg})
	if err != nil {
		slog.Error("encode realtime message", "message_id", msg.ID, "error", err)
		return
	}

	recipients := []string{msg.ReceiverID}
	if msg.SenderID != msg.ReceiverID {
		recipients = append(recipients, msg.SenderID)
	}
	select {
	case h.broadcast <- delivery{recipients: recipients, payload: payload}:
	default:
		slog.Warn("realtime broadcast queue full, message not pushed", "message_id", msg.ID)
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// sendToUser drops clients whose buffer is full.
func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump reads frames until the socket closes. Stored messages reach the
// sender again through the hub, so only failures are answered directly.
func (c *Client) ReadPump(service messageSender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame incomingFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.writeError("invalid message payload", "")
			continue
		}
		if frame.Type != EventMessage {
			c.writeError("unsupported message type", frame.ClientID)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		_, err = service.Send(ctx, c.userID, services.SendMessageInput{
			ReceiverID: frame.ReceiverID,
			Text:       frame.Text,
			ClientID:   frame.ClientID,
		})
		cancel()
		if err != nil {
			slog.Warn("realtime send failed", "user_id", c.userID, "error", err)
			c.writeError("failed to send message", frame.ClientID)
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// writeError goes through the hub, which owns c.send and may already have
// closed it.
func (c *Client) writeError(message, clientID string) {
	payload, err := json.Marshal(Envelope{Type: EventError, Error: message, ClientID: clientID})
	if err != nil {
		return
	}
	select {
	case c.hub.replies <- reply{client: c, payload: payload}:
	case <-c.hub.done:
	default:
	}
}
