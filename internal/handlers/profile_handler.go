package handlers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/catalog"
	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/models"
)

type profileService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, actorID string, p models.UserProfile) (*models.UserProfile, error)
	CompleteOnboarding(ctx context.Context, userID string) error
	ListMeasurements(ctx context.Context, userID string) []models.AnthropometryLog
	AddMeasurement(ctx context.Context, userID string, m models.AnthropometryLog) (*models.AnthropometryLog, error)
	ListCustomExercises(ctx context.Context, userID string) []models.ExerciseDefinition
	AddCustomExercise(ctx context.Context, userID string, e models.ExerciseDefinition) (*models.ExerciseDefinition, error)
}

type avatarUploader interface {
	UploadAvatar(ctx context.Context, userID string, file io.Reader, filename string) (string, error)
}

type ProfileHandler struct {
	profiles profileService
	media    avatarUploader
}

func NewProfileHandler(profiles profileService, media avatarUploader) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		media:    media,
	}
}

// profileFields are the self-editable fields that carry constraints.
type profileFields struct {
	Name            string  `json:"name" validate:"required,notblank,max=120"`
	Age             int     `json:"age" validate:"gte=0,lte=120"`
	Height          float64 `json:"height" validate:"gte=0,lte=300"`
	Gender          string  `json:"gender" validate:"omitempty,oneof=Male Female"`
	ExperienceLevel string  `json:"experienceLevel" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	PhoneNumber     string  `json:"phoneNumber" validate:"max=32"`
	Bio             string  `json:"bio" validate:"max=2000"`
}

type measurementRequest struct {
	models.AnthropometryLog
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Weight *float64 `json:"weight" validate:"omitempty,gte=0,lte=500"`
}

type exerciseRequest struct {
	models.ExerciseDefinition
	NameEn string `json:"nameEn" validate:"required,notblank,max=120"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := h.profiles.GetProfile(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, "get profile", err)
	}
	if profile == nil {
		return errorResponse(c, fiber.StatusNotFound, i18n.ProfileNotFound)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) SaveProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.UserProfile
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, i18n.InvalidBody)
	}
	if err := validate.Struct(profileFields{
		Name:            req.Name,
		Age:             req.Age,
		Height:          req.Height,
		Gender:          req.Gender,
		ExperienceLevel: req.ExperienceLevel,
		PhoneNumber:     req.PhoneNumber,
		Bio:             req.Bio,
	}); err != nil {
		return validationResponse(c, err)
	}

	profile, err := h.profiles.SaveProfile(c.UserContext(), userID, req)
	if err != nil {
		return serviceError(c, "save profile", err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	file, filename, ok, err := openUpload(c, uploadRule{field: "avatar", maxBytes: maxAvatarSizeBytes, extensions: imageExtensions})
	if !ok {
		return err
	}
	defer file.Close()

	avatarURL, err := h.media.UploadAvatar(c.UserContext(), userID, file, filename)
	if err != nil {
		return serviceError(c, "upload avatar", err)
	}
	return c.JSON(fiber.Map{"avatarUrl": avatarURL})
}

func (h *ProfileHandler) CompleteOnboarding(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.profiles.CompleteOnboarding(c.UserContext(), userID); err != nil {
		return serviceError(c, "complete onboarding", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProfileHandler) ListMeasurements(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"measurements": h.profiles.ListMeasurements(c.UserContext(), userID)})
}

func (h *ProfileHandler) AddMeasurement(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req measurementRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	m := req.AnthropometryLog
	m.Date, m.Weight = req.Date, req.Weight

	saved, err := h.profiles.AddMeasurement(c.UserContext(), userID, m)
	if err != nil {
		return serviceError(c, "add measurement", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"measurement": saved})
}

// ListExercises returns the built-in catalog followed by the user's own
// exercises.
func (h *ProfileHandler) ListExercises(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	custom := h.profiles.ListCustomExercises(c.UserContext(), userID)
	return c.JSON(fiber.Map{"exercises": catalog.WithCustom(custom)})
}

func (h *ProfileHandler) AddExercise(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req exerciseRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	e := req.ExerciseDefinition
	e.NameEn = req.NameEn

	saved, err := h.profiles.AddCustomExercise(c.UserContext(), userID, e)
	if err != nil {
		return serviceError(c, "add exercise", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"exercise": saved})
}
