package repository

import (
	"context"
	"time"

	"github.com/saeid-a/FitProBack/internal/models"
)

type DocumentRepository struct {
	db DBTX
}

func NewDocumentRepository(db DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, coachID, fileURL string) (*models.Document, error) {
	doc := models.Document{CoachID: coachID, FileURL: fileURL}
	var createdAt time.Time
	err := r.db.QueryRow(ctx, `
		INSERT INTO documents (coach_id, file_url, status)
		VALUES ($1, $2, 'pending')
		RETURNING id::text, status, created_at
	`, coachID, fileURL).Scan(&doc.ID, &doc.Status, &createdAt)
	if err != nil {
		return nil, err
	}
	doc.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &doc, nil
}
