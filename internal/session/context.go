// Package session holds the authenticated state of one caller: the verified
// access token, the identity behind it and the loaded profile.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/pkg/utils"
)

var (
	ErrInvalidToken = errors.New("invalid or expired access token")
	ErrNoSession    = errors.New("no active session")
	ErrUnknownEvent = errors.New("unknown auth event")
)

type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

type identityRevoker interface {
	SignOut(ctx context.Context, accessToken string) error
}

type profileLoader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Manager creates session contexts sharing one token secret and backend.
type Manager struct {
	jwtSecret string
	identity  identityRevoker
	profiles  profileLoader
}

func NewManager(jwtSecret string, identity identityRevoker, profiles profileLoader) *Manager {
	return &Manager{
		jwtSecret: jwtSecret,
		identity:  identity,
		profiles:  profiles,
	}
}

func (m *Manager) New() *Context {
	return &Context{manager: m}
}

// Context is safe for concurrent use.
type Context struct {
	manager *Manager

	mu          sync.RWMutex
	accessToken string
	claims      *utils.Claims
	profile     *models.UserProfile
}

type Snapshot struct {
	Authenticated bool                `json:"authenticated"`
	UserID        string              `json:"userId,omitempty"`
	Email         string              `json:"email,omitempty"`
	Profile       *models.UserProfile `json:"profile"`
}

// Role is the profile role, or Guest when no profile exists yet.
func (s Snapshot) Role() models.Role {
	if s.Profile == nil || s.Profile.Role == "" {
		return models.RoleGuest
	}
	return s.Profile.Role
}

// Initialize verifies accessToken and loads the profile behind it.
func (c *Context) Initialize(ctx context.Context, accessToken string) error {
	claims, err := utils.ValidateToken(accessToken, c.manager.jwtSecret)
	if err != nil {
		c.clear()
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	profile, err := c.manager.profiles.GetProfile(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	c.mu.Lock()
	c.accessToken = accessToken
	c.claims = claims
	c.profile = profile
	c.mu.Unlock()
	return nil
}

// HandleEvent applies an auth state change. Sign-in, token refresh and user
// updates reload the state from the new token; sign-out tears it down.
func (c *Context) HandleEvent(ctx context.Context, event Event, accessToken string) error {
	switch event {
	case EventSignedIn, EventTokenRefreshed:
		return c.Initialize(ctx, accessToken)
	case EventUserUpdated:
		if accessToken == "" {
			accessToken = c.token()
		}
		if accessToken == "" {
			return ErrNoSession
		}
		return c.Initialize(ctx, accessToken)
	case EventSignedOut:
		c.clear()
		return nil
	default:
		return ErrUnknownEvent
	}
}

// SignOut revokes the session at the identity provider. Local state is
// cleared even when revocation fails.
func (c *Context) SignOut(ctx context.Context) error {
	token := c.token()
	c.clear()
	if token == "" {
		return ErrNoSession
	}
	if c.manager.identity == nil {
		return nil
	}
	return c.manager.identity.SignOut(ctx, token)
}

func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.claims == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Authenticated: true,
		UserID:        c.claims.UserID,
		Email:         c.claims.Email,
	}
	if c.profile != nil {
		p := *c.profile
		snap.Profile = &p
	}
	return snap
}

func (c *Context) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.claims == nil {
		return ""
	}
	return c.claims.UserID
}

func (c *Context) AccessToken() string {
	return c.token()
}

func (c *Context) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Context) clear() {
	c.mu.Lock()
	c.accessToken = ""
	c.claims = nil
	c.profile = nil
	c.mu.Unlock()
}
