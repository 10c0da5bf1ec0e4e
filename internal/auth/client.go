package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/ss-infotech2024/AllCares/pkg/httpclient"
)

// Fallback messages shown when the identity API cannot be reached. No retry
// and no transient/permanent distinction: the user just sees the message.
const (
	signinFailedMessage = "Login failed. Try again."
	signupFailedMessage = "Signup failed. Try again."
)

// Result is the outcome of a sign-in or sign-up attempt.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Client is a thin wrapper over the external identity API. On success the
// returned user record is persisted in the session store; on any failure the
// caller gets a Result with a user-visible message and nothing else.
type Client struct {
	http     *httpclient.CircuitBreakerClient
	baseURL  string
	sessions *SessionStore
	logger   *slog.Logger
}

// NewClient creates an identity API client.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL string, sessions *SessionStore, logger *slog.Logger) *Client {
	return &Client{
		http:     http,
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		logger:   logger,
	}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// apiError is the identity API's error body.
type apiError struct {
	Message string `json:"message"`
}

// SignIn authenticates against the identity API and persists the returned
// user record on success.
func (c *Client) SignIn(ctx context.Context, email, password string) Result {
	return c.post(ctx, "/users/login", signinRequest{Email: email, Password: password}, signinFailedMessage)
}

// SignUp registers a new account and persists the returned user record on
// success.
func (c *Client) SignUp(ctx context.Context, name, email, password string) Result {
	return c.post(ctx, "/users/register", signupRequest{Name: name, Email: email, Password: password}, signupFailedMessage)
}

// SignOut discards the persisted user record.
func (c *Client) SignOut() error {
	return c.sessions.Clear()
}

// CurrentUser returns the persisted user, or false when signed out.
func (c *Client) CurrentUser() (*User, bool) {
	return c.sessions.Current()
}

func (c *Client) post(ctx context.Context, path string, payload any, fallbackMessage string) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Message: fallbackMessage}
	}

	resp, err := c.http.Post(ctx, c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		c.logger.WarnContext(ctx, "identity api unreachable",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return Result{Success: false, Message: fallbackMessage}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return Result{Success: false, Message: fallbackMessage}
		}
		return Result{Success: false, Message: apiErr.Message}
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.logger.WarnContext(ctx, "identity api returned malformed body",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return Result{Success: false, Message: fallbackMessage}
	}

	if err := c.sessions.Save(&user); err != nil {
		// Best-effort persistence: the sign-in itself succeeded.
		c.logger.WarnContext(ctx, "failed to persist user record",
			slog.String("error", err.Error()),
		)
	}

	return Result{Success: true}
}
