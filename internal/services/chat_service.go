package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/models"
)

const maxMessageLength = 4000

type messageStore interface {
	ListBetween(ctx context.Context, userA, userB string) ([]models.DirectMessage, error)
	Create(ctx context.Context, m models.DirectMessage) (*models.DirectMessage, error)
	MarkRead(ctx context.Context, receiverID, senderID string) error
}

// MessagePublisher pushes a stored message to the receiver's and the sender's
// open connections.
type MessagePublisher interface {
	PublishMessage(msg models.DirectMessage)
}

type ChatService struct {
	messages  messageStore
	profiles  profileGetter
	publisher MessagePublisher
}

func NewChatService(messages messageStore, profiles profileGetter, publisher MessagePublisher) *ChatService {
	return &ChatService{
		messages:  messages,
		profiles:  profiles,
		publisher: publisher,
	}
}

// History returns the conversation with peerID, oldest first, and marks the
// peer's messages as read. Failed reads come back empty.
func (s *ChatService) History(ctx context.Context, actorID, peerID string) []models.DirectMessage {
	messages, err := s.messages.ListBetween(ctx, actorID, peerID)
	if err != nil {
		slog.Error("fetch messages", "user_id", actorID, "peer_id", peerID, "error", err)
		return []models.DirectMessage{}
	}

	unread := false
	for i := range messages {
		if messages[i].ReceiverID == actorID && !messages[i].IsRead {
			messages[i].IsRead = true
			unread = true
		}
	}
	if unread {
		if err := s.messages.MarkRead(ctx, actorID, peerID); err != nil {
			slog.Warn("mark messages read", "user_id", actorID, "peer_id", peerID, "error", err)
		}
	}
	return messages
}

type SendMessageInput struct {
	ReceiverID string
	Text       string
	ClientID   string
}

// Send stores a message and pushes it to both sides. ClientID correlates the
// sender's optimistic copy with the stored one; resending the same ClientID
// returns the already stored message.
func (s *ChatService) Send(ctx context.Context, actorID string, input SendMessageInput) (*models.DirectMessage, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" || utf8.RuneCountInString(text) > maxMessageLength {
		return nil, ErrInvalidInput
	}
	if input.ReceiverID == "" || input.ReceiverID == actorID {
		return nil, ErrInvalidInput
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	} else if _, err := uuid.Parse(clientID); err != nil {
		return nil, ErrInvalidInput
	}

	if _, err := s.profiles.GetByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	msg, err := s.messages.Create(ctx, models.DirectMessage{
		ClientID:   clientID,
		SenderID:   actorID,
		ReceiverID: input.ReceiverID,
		Text:       text,
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishMessage(*msg)
	}
	return msg, nil
}
