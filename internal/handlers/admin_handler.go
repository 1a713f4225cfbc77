package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/services"
)

type adminService interface {
	ListPendingCoaches(ctx context.Context) []models.CoachListing
	UpdateVerificationStatus(ctx context.Context, coachID string, next models.VerificationStatus) (*models.UserProfile, error)
	SetRole(ctx context.Context, targetID string, role models.Role) error
}

type certificateSigner interface {
	SignCertificates(ctx context.Context, coaches []models.CoachListing) []models.CoachListing
}

type AdminHandler struct {
	profiles adminService
	media    certificateSigner
	email    emailDispatcher
}

func NewAdminHandler(profiles adminService, media certificateSigner, email emailDispatcher) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		media:    media,
		email:    email,
	}
}

type verificationRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Verified Rejected"`
}

type setRoleRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=Trainee Coach Admin"`
}

func (h *AdminHandler) ListPendingCoaches(c *fiber.Ctx) error {
	coaches := h.profiles.ListPendingCoaches(c.UserContext())
	return c.JSON(fiber.Map{"coaches": h.media.SignCertificates(c.UserContext(), coaches)})
}

// UpdateVerification moves a coach to a new verification state and tells the
// coach by email.
func (h *AdminHandler) UpdateVerification(c *fiber.Ctx) error {
	var req verificationRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	coach, err := h.profiles.UpdateVerificationStatus(c.UserContext(), c.Params("id"), models.VerificationStatus(req.Status))
	if err != nil {
		return serviceError(c, "update verification", err)
	}

	if h.email != nil && coach.Email != "" {
		if err := h.email.Dispatch(services.EmailVerificationUpdate, services.EmailPayload{
			To:     coach.Email,
			Name:   coach.Name,
			Status: string(coach.VerificationStatus),
		}); err != nil {
			slog.Warn("verification email skipped", "coach_id", coach.ID, "error", err)
		}
	}
	return c.JSON(fiber.Map{"profile": coach})
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var req setRoleRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	if err := h.profiles.SetRole(c.UserContext(), req.UserID, models.Role(req.Role)); err != nil {
		return serviceError(c, "set role", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
