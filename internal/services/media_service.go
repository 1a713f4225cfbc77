package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/models"
)

type documentStore interface {
	Create(ctx context.Context, coachID, fileURL string) (*models.Document, error)
}

// MediaService owns uploads that change a profile: coach certificates and
// avatars.
type MediaService struct {
	profiles  *ProfileService
	documents documentStore
	storage   StorageService
	now       func() time.Time
}

func NewMediaService(profiles *ProfileService, documents documentStore, storage StorageService) *MediaService {
	return &MediaService{
		profiles:  profiles,
		documents: documents,
		storage:   storage,
		now:       time.Now,
	}
}

type CertificateUpload struct {
	URL                string                    `json:"certUrl"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	Document           *models.Document          `json:"document"`
}

// UploadCertificate stores the file under certifications/{coach}, records a
// pending document and submits it for review.
func (s *MediaService) UploadCertificate(ctx context.Context, coachID string, file io.Reader, filename string) (*CertificateUpload, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if file == nil {
		return nil, ErrInvalidInput
	}

	coach, err := s.profiles.coach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if coach.VerificationStatus == models.VerificationVerified {
		return nil, ErrInvalidStateTransition
	}

	certURL, err := s.storage.UploadFile(ctx, file, uploadName(filename, s.now()), userFolder(certificationsFolder, coachID))
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Create(ctx, coachID, certURL)
	if err != nil {
		return nil, s.discard(ctx, certURL, fmt.Errorf("record certificate: %w", err))
	}

	status, err := s.profiles.SubmitCertificate(ctx, coachID, certURL)
	if err != nil {
		return nil, err
	}
	return &CertificateUpload{URL: certURL, VerificationStatus: status, Document: doc}, nil
}

// UploadAvatar replaces the profile picture. The previous file is removed
// once the profile points at the new one.
func (s *MediaService) UploadAvatar(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}
	if file == nil {
		return "", ErrInvalidInput
	}

	rec, err := s.profiles.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	avatarURL, err := s.storage.UploadFile(ctx, file, uploadName(filename, s.now()), userFolder(avatarsFolder, userID))
	if err != nil {
		return "", err
	}
	if err := s.profiles.SetAvatar(ctx, userID, avatarURL); err != nil {
		return "", s.discard(ctx, avatarURL, err)
	}

	if previous := rec.AvatarURL; previous != nil && *previous != "" && *previous != avatarURL {
		if err := s.storage.DeleteFile(ctx, *previous); err != nil {
			slog.Warn("delete previous avatar", "user_id", userID, "error", err)
		}
	}
	return avatarURL, nil
}

// SignCertificates swaps stored certificate URLs for short-lived signed ones
// so reviewers can open files in a private bucket. A URL that cannot be
// signed is left as stored.
func (s *MediaService) SignCertificates(ctx context.Context, coaches []models.CoachListing) []models.CoachListing {
	if s.storage == nil {
		return coaches
	}
	for i := range coaches {
		if coaches[i].CertURL == "" {
			continue
		}
		signed, err := s.storage.GetSignedURL(ctx, coaches[i].CertURL)
		if err != nil {
			slog.Warn("sign certificate url", "coach_id", coaches[i].ID, "error", err)
			continue
		}
		coaches[i].CertURL = signed
	}
	return coaches
}

func (s *MediaService) discard(ctx context.Context, fileURL string, err error) error {
	if cleanupErr := s.storage.DeleteFile(ctx, fileURL); cleanupErr != nil {
		return errors.Join(err, fmt.Errorf("cleanup failed: %w", cleanupErr))
	}
	return err
}
