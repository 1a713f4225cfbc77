package middleware

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/session"
)

const sessionKey = "session"

// AuthRequired verifies the bearer token and attaches a session context
// for the request. WebSocket upgrades may pass the token as ?token= instead.
func AuthRequired(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" && websocket.IsWebSocketUpgrade(c) {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			return reject(c, fiber.StatusUnauthorized, i18n.MissingToken)
		}

		sess := manager.New()
		if err := sess.Initialize(c.UserContext(), token); err != nil {
			if errors.Is(err, session.ErrInvalidToken) {
				return reject(c, fiber.StatusUnauthorized, i18n.InvalidToken)
			}
			slog.Error("initialize session", "error", err)
			return reject(c, fiber.StatusInternalServerError, i18n.Internal)
		}

		c.Locals(sessionKey, sess)
		c.Locals("user_id", sess.UserID())
		c.Locals("role", string(sess.Snapshot().Role()))
		return c.Next()
	}
}

// RequireRole lets through callers whose profile has one of roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if !slices.Contains(roles, models.Role(role)) {
			return reject(c, fiber.StatusForbidden, i18n.Forbidden)
		}
		return c.Next()
	}
}

// Session returns the context attached by AuthRequired, or nil.
func Session(c *fiber.Ctx) *session.Context {
	sess, _ := c.Locals(sessionKey).(*session.Context)
	return sess
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func reject(c *fiber.Ctx, status int, key i18n.Key) error {
	return c.Status(status).JSON(fiber.Map{
		"error": i18n.Message(c.Get(fiber.HeaderAcceptLanguage), key),
	})
}
