package handlers

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/dashboard"
	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/services"
)

type coachService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	ListVerifiedCoaches(ctx context.Context) []models.CoachListing
	LinkTrainee(ctx context.Context, traineeID, inviteCode string) (*services.LinkResult, error)
	GenerateInviteCode(ctx context.Context, coachID string) (string, error)
	ResolveRequest(ctx context.Context, coachID, requestID string, approve bool) (*models.ConnectionRequest, error)
}

type certificateUploader interface {
	UploadCertificate(ctx context.Context, coachID string, file io.Reader, filename string) (*services.CertificateUpload, error)
}

type traineeDashboard interface {
	ListTrainees(ctx context.Context, coachID string, opts dashboard.Options) ([]dashboard.Entry, error)
}

type CoachHandler struct {
	coaches   coachService
	media     certificateUploader
	dashboard traineeDashboard
	email     emailDispatcher
}

func NewCoachHandler(coaches coachService, media certificateUploader, dashboard traineeDashboard, email emailDispatcher) *CoachHandler {
	return &CoachHandler{
		coaches:   coaches,
		media:     media,
		dashboard: dashboard,
		email:     email,
	}
}

type linkTraineeRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,notblank,max=32"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=120"`
}

type resolveRequestBody struct {
	Action string `json:"action" validate:"required,oneof=APPROVE REJECT"`
}

// ListCoaches is the public directory of verified coaches.
func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	coaches, meta := paginate(h.coaches.ListVerifiedCoaches(c.UserContext()), parsePage(c))
	return c.JSON(fiber.Map{
		"coaches":    coaches,
		"pagination": meta,
	})
}

func (h *CoachHandler) LinkTrainee(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req linkTraineeRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	link, err := h.coaches.LinkTrainee(c.UserContext(), userID, req.InviteCode)
	if err != nil {
		return serviceError(c, "link trainee", err)
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

func (h *CoachHandler) UploadCertificate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	file, filename, ok, err := openUpload(c, uploadRule{field: "certificate", maxBytes: maxCertificateSizeBytes, extensions: certificateExtensions})
	if !ok {
		return err
	}
	defer file.Close()

	upload, err := h.media.UploadCertificate(c.UserContext(), userID, file, filename)
	if err != nil {
		return serviceError(c, "upload certificate", err)
	}
	return c.Status(fiber.StatusCreated).JSON(upload)
}

func (h *CoachHandler) GenerateInviteCode(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	code, err := h.coaches.GenerateInviteCode(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, "generate invite code", err)
	}
	return c.JSON(fiber.Map{"inviteCode": code})
}

// Invite emails the coach's invite code, minting one first if needed.
func (h *CoachHandler) Invite(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req inviteRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	coach, err := h.coaches.GetProfile(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, "load coach", err)
	}
	if coach == nil || !coach.IsCoach() {
		return serviceError(c, "invite trainee", services.ErrForbidden)
	}
	code := coach.InviteCode
	if code == "" {
		if code, err = h.coaches.GenerateInviteCode(c.UserContext(), userID); err != nil {
			return serviceError(c, "generate invite code", err)
		}
	}

	if err := h.email.Dispatch(services.EmailInvite, services.EmailPayload{
		To:         strings.TrimSpace(req.Email),
		Name:       strings.TrimSpace(req.Name),
		CoachName:  coach.Name,
		InviteCode: code,
	}); err != nil {
		return serviceError(c, "send invite", err)
	}
	slog.Info("invite queued", "coach_id", userID)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"inviteCode": code})
}

func (h *CoachHandler) ResolveRequest(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req resolveRequestBody
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	request, err := h.coaches.ResolveRequest(c.UserContext(), userID, c.Params("id"), req.Action == "APPROVE")
	if err != nil {
		return serviceError(c, "resolve request", err)
	}
	return c.JSON(fiber.Map{"request": request})
}

// ListTrainees serves the coach dashboard; filter, sort and order come from
// the query string.
func (h *CoachHandler) ListTrainees(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	opts, err := dashboard.ParseOptions(c.Query("filter"), c.Query("sort"), c.Query("order"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  message(c, i18n.ValidationFailed),
			"detail": err.Error(),
		})
	}

	entries, err := h.dashboard.ListTrainees(c.UserContext(), userID, opts)
	if err != nil {
		return serviceError(c, "list trainees", err)
	}
	return c.JSON(fiber.Map{"trainees": entries})
}
