package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/services"
)

type stubAdminService struct {
	pending []models.CoachListing
	coach   models.UserProfile
	err     error
	roles   map[string]models.Role
}

func (s *stubAdminService) ListPendingCoaches(context.Context) []models.CoachListing {
	return s.pending
}

func (s *stubAdminService) UpdateVerificationStatus(_ context.Context, coachID string, next models.VerificationStatus) (*models.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	coach := s.coach
	coach.ID = coachID
	coach.VerificationStatus = next
	return &coach, nil
}

func (s *stubAdminService) SetRole(_ context.Context, targetID string, role models.Role) error {
	if s.roles == nil {
		s.roles = map[string]models.Role{}
	}
	s.roles[targetID] = role
	return nil
}

type stubSigner struct{}

func (stubSigner) SignCertificates(_ context.Context, coaches []models.CoachListing) []models.CoachListing {
	for i := range coaches {
		coaches[i].CertURL += "?token=signed"
	}
	return coaches
}

func TestListPendingCoachesSignsCertificates(t *testing.T) {
	profiles := &stubAdminService{pending: []models.CoachListing{{ID: testCoachID, CertURL: "https://cdn.example.com/cert.pdf"}}}
	handler := NewAdminHandler(profiles, stubSigner{}, nil)

	app := newTestApp("admin-1", string(models.RoleAdmin))
	app.Get("/api/admin/coaches/pending", handler.ListPendingCoaches)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/coaches/pending", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Coaches []models.CoachListing `json:"coaches"`
	}
	decodeBody(t, resp, &body)
	if len(body.Coaches) != 1 || body.Coaches[0].CertURL != "https://cdn.example.com/cert.pdf?token=signed" {
		t.Fatalf("unexpected coaches: %+v", body.Coaches)
	}
}

func TestUpdateVerificationNotifiesCoach(t *testing.T) {
	profiles := &stubAdminService{coach: models.UserProfile{Email: "reza@example.com", Name: "Reza", Role: models.RoleCoach}}
	email := &stubDispatcher{}
	handler := NewAdminHandler(profiles, stubSigner{}, email)

	app := newTestApp("admin-1", string(models.RoleAdmin))
	app.Put("/api/admin/coaches/:id/verification", handler.UpdateVerification)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/coaches/"+testCoachID+"/verification", map[string]string{"status": "Verified"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(email.sent))
	}
	if sent := email.sent[0]; sent.kind != services.EmailVerificationUpdate || sent.payload.Status != "Verified" {
		t.Fatalf("unexpected dispatch: %+v", sent)
	}
}

func TestUpdateVerificationRejectsBadTransition(t *testing.T) {
	email := &stubDispatcher{}
	handler := NewAdminHandler(&stubAdminService{err: services.ErrInvalidStateTransition}, stubSigner{}, email)

	app := newTestApp("admin-1", string(models.RoleAdmin))
	app.Put("/api/admin/coaches/:id/verification", handler.UpdateVerification)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/coaches/"+testCoachID+"/verification", map[string]string{"status": "Pending"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if len(email.sent) != 0 {
		t.Fatal("no email for a failed transition")
	}
}

func TestSetRoleRejectsGuest(t *testing.T) {
	profiles := &stubAdminService{}
	handler := NewAdminHandler(profiles, stubSigner{}, nil)

	app := newTestApp("admin-1", string(models.RoleAdmin))
	app.Post("/api/admin/set-role", handler.SetRole)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/set-role", map[string]string{"userId": testCoachID, "role": "Guest"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/admin/set-role", map[string]string{"userId": testCoachID, "role": "Coach"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if profiles.roles[testCoachID] != models.RoleCoach {
		t.Fatalf("unexpected roles: %+v", profiles.roles)
	}
}
