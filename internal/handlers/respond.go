package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/identity"
	"github.com/saeid-a/FitProBack/internal/services"
)

func message(c *fiber.Ctx, key i18n.Key) string {
	return i18n.Message(c.Get(fiber.HeaderAcceptLanguage), key)
}

func errorResponse(c *fiber.Ctx, status int, key i18n.Key) error {
	return c.Status(status).JSON(fiber.Map{"error": message(c, key)})
}

// internalError logs err and answers 500. Error records reach Sentry through
// the logging handler.
func internalError(c *fiber.Ctx, op string, err error) error {
	slog.Error(op, "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
	return errorResponse(c, fiber.StatusInternalServerError, i18n.Internal)
}

var serviceErrors = []struct {
	err    error
	status int
	key    i18n.Key
}{
	{services.ErrInvalidInput, fiber.StatusBadRequest, i18n.ValidationFailed},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, i18n.InvalidStatus},
	{services.ErrInvalidInviteCode, fiber.StatusBadRequest, i18n.InvalidInviteCode},
	{services.ErrForbidden, fiber.StatusForbidden, i18n.Forbidden},
	{services.ErrCoachNotVerified, fiber.StatusForbidden, i18n.CoachNotVerified},
	{services.ErrNotFound, fiber.StatusNotFound, i18n.NotFound},
	{services.ErrConflict, fiber.StatusConflict, i18n.Conflict},
	{services.ErrDuplicateRequest, fiber.StatusConflict, i18n.DuplicateRequest},
	{services.ErrInvalidStateTransition, fiber.StatusConflict, i18n.InvalidState},
	{services.ErrTraineeLimitReached, fiber.StatusPaymentRequired, i18n.TraineeLimit},
	{services.ErrStorageUnavailable, fiber.StatusServiceUnavailable, i18n.StorageUnavailable},
	{identity.ErrInvalidCredentials, fiber.StatusUnauthorized, i18n.InvalidCredentials},
	{identity.ErrUnauthorized, fiber.StatusUnauthorized, i18n.InvalidToken},
	{identity.ErrUnsupportedOAuth, fiber.StatusBadRequest, i18n.UnsupportedOAuth},
}

// serviceError maps a service error to its status code. Anything unknown is
// an internal error reported under op.
func serviceError(c *fiber.Ctx, op string, err error) error {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			return errorResponse(c, e.status, e.key)
		}
	}
	return internalError(c, op, err)
}

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

func unauthorized(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusUnauthorized, i18n.InvalidToken)
}
