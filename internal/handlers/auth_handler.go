package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/identity"
	"github.com/saeid-a/FitProBack/internal/middleware"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/services"
)

type identityProvider interface {
	SignUp(ctx context.Context, input identity.SignUpInput) (*identity.User, *identity.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	ResetPassword(ctx context.Context, email, redirectTo string) error
	OAuthURL(provider, redirectTo string) (string, error)
}

type profileRegistrar interface {
	RegisterProfile(ctx context.Context, input services.RegisterProfileInput) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type emailDispatcher interface {
	Dispatch(kind services.EmailType, p services.EmailPayload) error
}

type AuthHandler struct {
	identity identityProvider
	profiles profileRegistrar
	email    emailDispatcher
}

func NewAuthHandler(identity identityProvider, profiles profileRegistrar, email emailDispatcher) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		profiles: profiles,
		email:    email,
	}
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Role     string `json:"role" validate:"required,oneof=Trainee Coach"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirectTo" validate:"omitempty,url"`
}

// SignUp registers the identity and creates its profile. An email that is
// already registered answers 409 with a hint to sign in instead.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	user, sess, err := h.identity.SignUp(c.UserContext(), identity.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Metadata: map[string]any{"full_name": req.Name, "role": req.Role},
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":            message(c, i18n.EmailTaken),
				"suggested_action": "SIGN_IN",
			})
		}
		return internalError(c, "sign up", err)
	}

	if err := h.profiles.RegisterProfile(c.UserContext(), services.RegisterProfileInput{
		ID:    user.ID,
		Email: req.Email,
		Name:  req.Name,
		Role:  models.Role(req.Role),
	}); err != nil {
		return serviceError(c, "register profile", err)
	}

	if h.email != nil {
		if err := h.email.Dispatch(services.EmailWelcome, services.EmailPayload{To: req.Email, Name: req.Name}); err != nil {
			slog.Warn("welcome email skipped", "user_id", user.ID, "error", err)
		}
	}

	profile, _ := h.profiles.GetProfile(c.UserContext(), user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user,
		"session": sess,
		"profile": profile,
	})
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	sess, err := h.identity.SignInWithPassword(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return serviceError(c, "sign in", err)
	}

	var profile *models.UserProfile
	if sess.User != nil {
		profile, _ = h.profiles.GetProfile(c.UserContext(), sess.User.ID)
	}
	return c.JSON(fiber.Map{
		"session": sess,
		"profile": profile,
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	if err := h.identity.ResetPassword(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Email)), req.RedirectTo); err != nil {
		return internalError(c, "reset password", err)
	}
	return c.JSON(fiber.Map{"message": message(c, i18n.ResetSent)})
}

// OAuthURL returns the provider's authorize URL; the client navigates there.
func (h *AuthHandler) OAuthURL(c *fiber.Ctx) error {
	authorizeURL, err := h.identity.OAuthURL(c.Params("provider"), c.Query("redirect_to"))
	if err != nil {
		return serviceError(c, "oauth url", err)
	}
	return c.JSON(fiber.Map{"url": authorizeURL})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := middleware.Session(c)
	if sess == nil {
		return unauthorized(c)
	}
	snap := sess.Snapshot()
	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    snap.UserID,
			"email": snap.Email,
			"role":  snap.Role(),
		},
		"profile": snap.Profile,
	})
}

// SignOut revokes the access token. A token the provider already dropped
// counts as signed out.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	sess := middleware.Session(c)
	if sess == nil {
		return unauthorized(c)
	}
	if err := sess.SignOut(c.UserContext()); err != nil && !errors.Is(err, identity.ErrUnauthorized) {
		return internalError(c, "sign out", err)
	}
	return c.JSON(fiber.Map{"message": message(c, i18n.SignedOut)})
}

type registerProfileRequest struct {
	Role string `json:"role" validate:"required,oneof=Trainee Coach"`
	Name string `json:"name" validate:"max=120"`
}

// RegisterProfile creates the profile of an identity that signed in through
// OAuth and has none yet.
func (h *AuthHandler) RegisterProfile(c *fiber.Ctx) error {
	sess := middleware.Session(c)
	if sess == nil {
		return unauthorized(c)
	}
	snap := sess.Snapshot()
	if snap.Profile != nil {
		return errorResponse(c, fiber.StatusConflict, i18n.Conflict)
	}

	var req registerProfileRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name, _, _ = strings.Cut(snap.Email, "@")
	}

	if err := h.profiles.RegisterProfile(c.UserContext(), services.RegisterProfileInput{
		ID:    snap.UserID,
		Email: snap.Email,
		Name:  name,
		Role:  models.Role(req.Role),
	}); err != nil {
		return serviceError(c, "register profile", err)
	}

	profile, _ := h.profiles.GetProfile(c.UserContext(), snap.UserID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"profile": profile})
}
