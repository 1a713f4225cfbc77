// Package identity talks to the Supabase auth service (GoTrue), which owns
// passwords, tokens and OAuth.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("access token rejected")
	ErrUnsupportedOAuth   = errors.New("unsupported oauth provider")
)

var oauthProviders = map[string]bool{
	"google": true,
	"apple":  true,
	"github": true,
}

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// FullName reads the name stored at sign-up, if any.
func (u User) FullName() string {
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		return name
	}
	return ""
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

type SignUpInput struct {
	Email    string
	Password string
	Metadata map[string]any
}

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey:    anonKey,
		httpClient: http.DefaultClient,
	}
}

// SignUp registers a new identity. The session is nil when the project
// requires email confirmation before sign-in.
func (c *Client) SignUp(ctx context.Context, input SignUpInput) (*User, *Session, error) {
	body := map[string]any{
		"email":    input.Email,
		"password": input.Password,
	}
	if len(input.Metadata) > 0 {
		body["data"] = input.Metadata
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &raw); err != nil {
		return nil, nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err == nil && session.AccessToken != "" {
		return session.User, &session, nil
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, nil, fmt.Errorf("decode signup response: %w", err)
	}
	return &user, nil, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ResetPassword sends the password-recovery email.
func (c *Client) ResetPassword(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
}

// SignOut revokes the refresh tokens of the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// OAuthURL is where the browser goes to start an OAuth sign-in.
func (c *Client) OAuthURL(provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !oauthProviders[provider] {
		return "", ErrUnsupportedOAuth
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/authorize?" + q.Encode(), nil
}

type apiError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal auth request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classify(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}

func classify(status int, raw []byte) error {
	var body apiError
	_ = json.Unmarshal(raw, &body)
	text := strings.ToLower(body.text())

	switch {
	case body.ErrorCode == "user_already_exists" || body.ErrorCode == "email_exists" ||
		strings.Contains(text, "already registered"):
		return ErrEmailTaken
	case body.ErrorCode == "invalid_credentials" || body.Error == "invalid_grant":
		return ErrInvalidCredentials
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	}

	msg := body.text()
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return fmt.Errorf("auth service: status %d: %s", status, msg)
}
