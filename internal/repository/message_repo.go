package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/models"
)

const messageColumns = `id::text, client_id::text, sender_id::text, receiver_id::text, text, is_read, created_at`

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.DirectMessage, error) {
	var m models.DirectMessage
	if err := row.Scan(
		&m.ID,
		&m.ClientID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Text,
		&m.IsRead,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListBetween returns the conversation of two users, oldest first.
func (r *MessageRepository) ListBetween(ctx context.Context, userA, userB string) ([]models.DirectMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM direct_messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.DirectMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// Create is idempotent on (sender_id, client_id): a retried send returns the
// row stored by the first attempt.
func (r *MessageRepository) Create(ctx context.Context, m models.DirectMessage) (*models.DirectMessage, error) {
	return scanMessage(r.db.QueryRow(ctx, `
		INSERT INTO direct_messages (client_id, sender_id, receiver_id, text, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (sender_id, client_id) DO UPDATE SET client_id = EXCLUDED.client_id
		RETURNING `+messageColumns,
		m.ClientID, m.SenderID, m.ReceiverID, m.Text,
	))
}

// MarkRead flags every message from sender to receiver as read.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE direct_messages
		SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, receiverID, senderID)
	return err
}
