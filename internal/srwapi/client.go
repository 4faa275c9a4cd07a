// Package srwapi is the typed client for the remote SRW REST API, the
// system of record behind the portal. The portal treats it as an opaque
// collaborator: every data operation here is a plain HTTP call.
package srwapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/config"
	"github.com/srw-platform/portal/internal/domain"
	apperrors "github.com/srw-platform/portal/pkg/util"
)

// Client calls the SRW API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// New builds a client from configuration.
func New(cfg config.APIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
		now:     time.Now,
	}
}

// AuthResult is what a successful login, registration or password change
// yields: a fresh token plus the user snapshot to persist alongside it.
type AuthResult struct {
	Token string
	User  domain.UserRecord
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPage is one page of the admin user list.
type UserPage struct {
	Users []domain.UserRecord `json:"users"`
	Total int                 `json:"total"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *wireError      `json:"error"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wireUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type wireAuth struct {
	Token       string `json:"token"`
	ExpiresInMS int64  `json:"expires_in_ms"`
}

type authPayload struct {
	User wireUser `json:"user"`
	Auth wireAuth `json:"auth"`
}

// Login authenticates with the SRW API and returns the issued session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var payload authPayload
	if err := c.call(ctx, http.MethodPost, "/auth/users/login", "", body, &payload); err != nil {
		return nil, err
	}
	return c.authResult(payload)
}

// Register creates an account; on success the API signs the user in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var payload authPayload
	if err := c.call(ctx, http.MethodPost, "/auth/users/register", "", body, &payload); err != nil {
		return nil, err
	}
	return c.authResult(payload)
}

// TerminateSession invalidates the bearer token server-side. Callers
// tolerate failure: local logout proceeds regardless.
func (c *Client) TerminateSession(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context, token string) (*domain.UserRecord, error) {
	var payload struct {
		User wireUser `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/users/me", token, nil, &payload); err != nil {
		return nil, err
	}
	user, err := c.toRecord(payload.User)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves profile edits and returns the updated snapshot.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*domain.UserRecord, error) {
	var payload struct {
		User wireUser `json:"user"`
	}
	if err := c.call(ctx, http.MethodPut, "/users/me", token, update, &payload); err != nil {
		return nil, err
	}
	user, err := c.toRecord(payload.User)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the password; the API responds with a fresh token.
func (c *Client) ChangePassword(ctx context.Context, token, current, next string) (*AuthResult, error) {
	body := map[string]string{"current_password": current, "new_password": next}

	var payload authPayload
	if err := c.call(ctx, http.MethodPost, "/auth/password/change", token, body, &payload); err != nil {
		return nil, err
	}
	return c.authResult(payload)
}

// Notifications lists the signed-in user's notifications.
func (c *Client) Notifications(ctx context.Context, token string) ([]domain.Notification, error) {
	var payload struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	if err := c.call(ctx, http.MethodGet, "/notifications", token, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Notifications, nil
}

// Users lists accounts for the administrative screens.
func (c *Client) Users(ctx context.Context, token string, page, perPage int) (*UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
	path := "/admin/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload struct {
		Users []wireUser `json:"users"`
		Total int        `json:"total"`
	}
	if err := c.call(ctx, http.MethodGet, path, token, nil, &payload); err != nil {
		return nil, err
	}

	result := &UserPage{Total: payload.Total, Users: make([]domain.UserRecord, 0, len(payload.Users))}
	for _, wu := range payload.Users {
		user, err := c.toRecord(wu)
		if err != nil {
			return nil, err
		}
		result.Users = append(result.Users, user)
	}
	return result, nil
}

func (c *Client) authResult(payload authPayload) (*AuthResult, error) {
	user, err := c.toRecord(payload.User)
	if err != nil {
		return nil, err
	}
	user.TimeStamp = c.now().UnixMilli()
	user.ExpiresIn = payload.Auth.ExpiresInMS
	return &AuthResult{Token: payload.Auth.Token, User: user}, nil
}

func (c *Client) toRecord(wu wireUser) (domain.UserRecord, error) {
	role, err := domain.ParseRole(wu.Role)
	if err != nil {
		return domain.UserRecord{}, apperrors.NewUpstreamError(http.StatusBadGateway, "UPSTREAM_BAD_ROLE", err.Error())
	}
	return domain.UserRecord{
		ID:     wu.ID,
		Name:   wu.Name,
		Email:  wu.Email,
		Role:   role,
		Status: domain.UserStatus(wu.Status),
	}, nil
}

// call performs one API round trip, decoding the {"data": ...} envelope
// into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call srw api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read srw api response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			return fmt.Errorf("decode srw api response: %w", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		code, message := "", resp.Status
		if env.Error != nil {
			code, message = env.Error.Code, env.Error.Message
		}
		c.logger.Warn("srw api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", code))
		return apperrors.NewUpstreamError(resp.StatusCode, code, message)
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("srw api response missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode srw api payload: %w", err)
	}
	return nil
}
