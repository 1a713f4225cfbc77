package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/saeid-a/FitProBack/internal/models"
)

type stubDocuments struct {
	created []string
	err     error
}

func (s *stubDocuments) Create(_ context.Context, coachID, fileURL string) (*models.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, fileURL)
	return &models.Document{ID: "doc-1", CoachID: coachID, FileURL: fileURL, Status: "pending"}, nil
}

func newTestMediaService(profiles *stubProfileStore, storage StorageService) (*MediaService, *stubDocuments) {
	svc, _, _, _ := newTestProfileService(profiles)
	docs := &stubDocuments{}
	media := NewMediaService(svc, docs, storage)
	media.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return media, docs
}

func TestUploadCertificateResubmitsRejectedCoach(t *testing.T) {
	coach := profileRecord("c1", models.RoleCoach)
	coach.VerificationStatus = ptrTo(string(models.VerificationRejected))
	profiles := newStubProfileStore(coach)
	storage := &stubStorage{uploadURL: "https://cdn/certifications/c1/cert.pdf"}
	media, docs := newTestMediaService(profiles, storage)

	upload, err := media.UploadCertificate(context.Background(), "c1", strings.NewReader("pdf"), "my cert.pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if upload.VerificationStatus != models.VerificationPending {
		t.Fatalf("expected Pending after resubmission, got %s", upload.VerificationStatus)
	}
	if storage.lastFolder != "certifications/c1" || storage.lastFilename != "1700000000000_my_cert.pdf" {
		t.Fatalf("unexpected object path %s/%s", storage.lastFolder, storage.lastFilename)
	}
	if len(docs.created) != 1 || profiles.certificates["c1"] != storage.uploadURL {
		t.Fatal("expected a document row and the certificate on the profile")
	}
}

func TestUploadCertificateRejectsVerifiedCoach(t *testing.T) {
	coach := profileRecord("c1", models.RoleCoach)
	coach.VerificationStatus = ptrTo(string(models.VerificationVerified))
	storage := &stubStorage{uploadURL: "https://cdn/x"}
	media, _ := newTestMediaService(newStubProfileStore(coach), storage)

	if _, err := media.UploadCertificate(context.Background(), "c1", strings.NewReader("pdf"), "c.pdf"); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if storage.lastFilename != "" {
		t.Fatal("nothing may be uploaded for a verified coach")
	}
}

func TestUploadCertificateCleansUpWhenDocumentFails(t *testing.T) {
	profiles := newStubProfileStore(profileRecord("c1", models.RoleCoach))
	storage := &stubStorage{uploadURL: "https://cdn/x"}
	media, docs := newTestMediaService(profiles, storage)
	docs.err = errStubFailure

	if _, err := media.UploadCertificate(context.Background(), "c1", strings.NewReader("pdf"), "c.pdf"); !errors.Is(err, errStubFailure) {
		t.Fatalf("expected document error, got %v", err)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "https://cdn/x" {
		t.Fatalf("expected uploaded file removed, got %v", storage.deleted)
	}
}

func TestUploadCertificateRequiresCoach(t *testing.T) {
	media, _ := newTestMediaService(newStubProfileStore(profileRecord("t1", models.RoleTrainee)), &stubStorage{})

	if _, err := media.UploadCertificate(context.Background(), "t1", strings.NewReader("pdf"), "c.pdf"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	user := profileRecord("u1", models.RoleTrainee)
	user.AvatarURL = ptrTo("https://cdn/avatars/u1/old.png")
	profiles := newStubProfileStore(user)
	storage := &stubStorage{uploadURL: "https://cdn/avatars/u1/new.png"}
	media, _ := newTestMediaService(profiles, storage)

	url, err := media.UploadAvatar(context.Background(), "u1", strings.NewReader("png"), "me.png")
	if err != nil {
		t.Fatalf("upload avatar: %v", err)
	}
	if url != storage.uploadURL || profiles.avatars["u1"] != storage.uploadURL {
		t.Fatalf("expected avatar stored on profile, got %q", profiles.avatars["u1"])
	}
	if storage.lastFolder != "avatars/u1" {
		t.Fatalf("unexpected folder %s", storage.lastFolder)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "https://cdn/avatars/u1/old.png" {
		t.Fatalf("expected previous avatar deleted, got %v", storage.deleted)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	media, _ := newTestMediaService(newStubProfileStore(profileRecord("u1", models.RoleCoach)), nil)

	if _, err := media.UploadAvatar(context.Background(), "u1", strings.NewReader("x"), "a.png"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, err := media.UploadCertificate(context.Background(), "u1", strings.NewReader("x"), "c.pdf"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSignCertificatesSkipsEmptyURLs(t *testing.T) {
	media, _ := newTestMediaService(newStubProfileStore(), &stubStorage{})

	coaches := media.SignCertificates(context.Background(), []models.CoachListing{
		{ID: "c1", CertURL: "https://cdn/certifications/c1/cert.pdf"},
		{ID: "c2"},
	})
	if coaches[0].CertURL != "https://cdn/certifications/c1/cert.pdf?signed" {
		t.Fatalf("expected signed url, got %q", coaches[0].CertURL)
	}
	if coaches[1].CertURL != "" {
		t.Fatalf("expected empty url to stay empty, got %q", coaches[1].CertURL)
	}
}
