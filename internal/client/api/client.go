// Package api implements the HTTP gateway to the opsdeck backend. Every
// outbound request resolves the bearer token anew through a TokenSource, so
// a logout takes effect on the very next call; non-2xx responses are mapped
// to the typed errors of this package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/opsdeck/opsdeck/internal/client/models"
)

// TokenSource returns the current bearer token, or the empty string when no
// session is active. It is consulted on every request and its result is
// never cached by the client.
type TokenSource func() string

// Client talks JSON over HTTP to a single opsdeck server.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New constructs a Client for the given base URL (e.g. "http://localhost:8000").
// A nil tokens source makes every request unauthenticated.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// do issues one request and decodes the response into out (when non-nil).
// Transport failures become *NetworkError; non-2xx statuses are classified
// into *AuthError, *ValidationError, or *ServerError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	return c.mapError(resp)
}

func (c *Client) mapError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&eb)
	detail, fields := parseDetail(eb.Detail, http.StatusText(resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Detail: detail}
	case resp.StatusCode >= 500:
		return &ServerError{Status: resp.StatusCode, Detail: detail}
	default:
		return &ValidationError{
			Status:   resp.StatusCode,
			Detail:   detail,
			Fields:   fields,
			Conflict: resp.StatusCode == http.StatusConflict,
		}
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. Invalid credentials are
// reported as *AuthError regardless of whether the server used 400 or 401.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Status == http.StatusBadRequest {
			return "", &AuthError{Status: ve.Status, Detail: ve.Detail}
		}
		return "", err
	}
	return resp.AccessToken, nil
}

type recoverRequest struct {
	Email string `json:"email"`
}

// RecoverPassword asks the server to email a password-reset link.
func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/password-recovery", recoverRequest{Email: email}, nil)
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword completes a recovery using the token from the reset link.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/reset-password", resetRequest{Token: token, NewPassword: newPassword}, nil)
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// SignUp registers a new account without requiring authentication.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/users/signup", signupRequest{Email: email, Password: password, FullName: fullName}, nil)
}

// CurrentUser fetches the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (models.CurrentUser, error) {
	var u models.CurrentUser
	err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &u)
	return u, err
}

// UpdateMe patches the authenticated account.
func (c *Client) UpdateMe(ctx context.Context, in models.UserUpdateMe) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/users/me", in, nil)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword changes the authenticated account's password.
func (c *Client) UpdatePassword(ctx context.Context, current, newPassword string) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/users/me/password", updatePasswordRequest{CurrentPassword: current, NewPassword: newPassword}, nil)
}

// DeleteMe removes the authenticated account.
func (c *Client) DeleteMe(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/users/me", nil, nil)
}

// ListUsers fetches the user collection (superuser only).
func (c *Client) ListUsers(ctx context.Context) (models.UserList, error) {
	var l models.UserList
	err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, &l)
	return l, err
}

// CreateUser creates a user (superuser only).
func (c *Client) CreateUser(ctx context.Context, in models.UserCreate) error {
	return c.do(ctx, http.MethodPost, "/api/v1/users", in, nil)
}

// UpdateUser patches a user by id (superuser only).
func (c *Client) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", id), in, nil)
}

// DeleteUser removes a user by id (superuser only).
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", id), nil, nil)
}

// ListItems fetches the caller's item collection.
func (c *Client) ListItems(ctx context.Context) (models.ItemList, error) {
	var l models.ItemList
	err := c.do(ctx, http.MethodGet, "/api/v1/items", nil, &l)
	return l, err
}

// CreateItem creates an item owned by the caller.
func (c *Client) CreateItem(ctx context.Context, in models.ItemCreate) error {
	return c.do(ctx, http.MethodPost, "/api/v1/items", in, nil)
}

// UpdateItem patches an item by id.
func (c *Client) UpdateItem(ctx context.Context, id int64, in models.ItemUpdate) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/items/%d", id), in, nil)
}

// DeleteItem removes an item by id.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/items/%d", id), nil, nil)
}
