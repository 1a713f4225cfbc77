package models

import "time"

type DirectMessage struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId,omitempty"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}
