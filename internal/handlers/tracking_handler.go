package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/nutrition"
)

type trackingService interface {
	GetLogs(ctx context.Context, userID string) models.UserLogs
	SaveLogs(ctx context.Context, userID string, in models.UserLogs) (models.UserLogs, error)
	NutritionSummary(ctx context.Context, userID, date string) nutrition.DaySummary
	UploadWorkoutVideo(ctx context.Context, userID, logID string, file io.Reader, filename string) (string, error)
	AddVideoFeedback(ctx context.Context, coachID, logID, comment string) (*models.VideoFeedback, error)
}

type TrackingHandler struct {
	tracking trackingService
}

func NewTrackingHandler(tracking trackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

type videoFeedbackRequest struct {
	WorkoutLogID string `json:"workoutLogId" validate:"required,uuid"`
	Comment      string `json:"comment" validate:"required,notblank,max=2000"`
}

func (h *TrackingHandler) GetLogs(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(h.tracking.GetLogs(c.UserContext(), userID))
}

func (h *TrackingHandler) SaveLogs(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.UserLogs
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, i18n.InvalidBody)
	}

	saved, err := h.tracking.SaveLogs(c.UserContext(), userID, req)
	if err != nil {
		return serviceError(c, "save logs", err)
	}
	return c.JSON(saved)
}

func (h *TrackingHandler) NutritionSummary(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	date := strings.TrimSpace(c.Query("date"))
	if date != "" {
		if err := validate.Var(date, "datetime=2006-01-02"); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, i18n.ValidationFailed)
		}
	}
	return c.JSON(h.tracking.NutritionSummary(c.UserContext(), userID, date))
}

// UploadWorkoutVideo takes a multipart "video" file and an optional
// "workoutLogId" form value to attach it to.
func (h *TrackingHandler) UploadWorkoutVideo(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	file, filename, ok, err := openUpload(c, uploadRule{field: "video", maxBytes: maxVideoSizeBytes, extensions: videoExtensions})
	if !ok {
		return err
	}
	defer file.Close()

	videoURL, err := h.tracking.UploadWorkoutVideo(c.UserContext(), userID, strings.TrimSpace(c.FormValue("workoutLogId")), file, filename)
	if err != nil {
		return serviceError(c, "upload workout video", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"videoUrl": videoURL})
}

func (h *TrackingHandler) AddVideoFeedback(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req videoFeedbackRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	feedback, err := h.tracking.AddVideoFeedback(c.UserContext(), userID, req.WorkoutLogID, req.Comment)
	if err != nil {
		return serviceError(c, "add video feedback", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"feedback": feedback})
}
