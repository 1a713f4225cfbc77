package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/services"
)

type EmailHandler struct {
	email emailDispatcher
}

func NewEmailHandler(email emailDispatcher) *EmailHandler {
	return &EmailHandler{email: email}
}

type sendEmailRequest struct {
	Type       string `json:"type" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"max=120"`
	CoachName  string `json:"coachName" validate:"max=120"`
	InviteCode string `json:"inviteCode" validate:"max=32"`
	Months     int    `json:"months" validate:"min=0,max=36"`
	ExpiryDate string `json:"expiryDate" validate:"max=32"`
	Status     string `json:"status" validate:"max=32"`
	Subject    string `json:"subject" validate:"max=200"`
	Message    string `json:"message" validate:"max=5000"`
}

// SendEmail queues a typed notification. Delivery happens in the background,
// so 202 only means the message rendered.
func (h *EmailHandler) SendEmail(c *fiber.Ctx) error {
	var req sendEmailRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	kind, ok := services.ParseEmailType(req.Type)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, i18n.ValidationFailed)
	}

	err := h.email.Dispatch(kind, services.EmailPayload{
		To:         req.Email,
		Name:       req.Name,
		CoachName:  req.CoachName,
		InviteCode: req.InviteCode,
		Months:     req.Months,
		ExpiryDate: req.ExpiryDate,
		Status:     req.Status,
		Subject:    req.Subject,
		Message:    req.Message,
	})
	if err != nil {
		return serviceError(c, "send email", err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": message(c, i18n.EmailQueued)})
}
