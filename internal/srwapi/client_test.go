package srwapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/config"
	"github.com/srw-platform/portal/internal/domain"
	apperrors "github.com/srw-platform/portal/pkg/util"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/users/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "dana@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"user": map[string]any{
					"id": "u1", "name": "Dana", "email": "dana@example.com",
					"role": "CUSTOMER", "status": "ACTIVE",
				},
				"auth": map[string]any{
					"token": "issued-token", "expires_in_ms": 3600000,
				},
			},
		})
	})

	client := newTestClient(t, handler)
	before := time.Now().UnixMilli()
	result, err := client.Login(context.Background(), "dana@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "issued-token", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, domain.RoleCustomer, result.User.Role)
	assert.Equal(t, int64(3600000), result.User.ExpiresIn)
	assert.GreaterOrEqual(t, result.User.TimeStamp, before, "login instant is stamped client-side")
}

func TestLoginUpstreamErrorMapped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "INVALID_CREDENTIALS", "message": "invalid credentials"},
		})
	})

	client := newTestClient(t, handler)
	_, err := client.Login(context.Background(), "dana@example.com", "wrong")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"user": map[string]any{"id": "u1", "role": "SUPERADMIN"},
				"auth": map[string]any{"token": "tok"},
			},
		})
	})

	client := newTestClient(t, handler)
	_, err := client.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_BAD_ROLE", apperrors.ToDomainError(err).Code)
}

func TestTerminateSession(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, handler)
	require.NoError(t, client.TerminateSession(context.Background(), "tok-1"))
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestTerminateSessionFailureIsReturned(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(t, handler)
	assert.Error(t, client.TerminateSession(context.Background(), "tok-1"))
}

func TestNotifications(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notifications", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"notifications": []map[string]any{
					{"id": "n1", "title": "Repair scheduled", "read": false},
					{"id": "n2", "title": "Invoice ready", "read": true},
				},
			},
		})
	})

	client := newTestClient(t, handler)
	notifications, err := client.Notifications(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "Repair scheduled", notifications[0].Title)
	assert.True(t, notifications[1].Read)
}

func TestUsersPaging(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"users": []map[string]any{
					{"id": "u1", "role": "EMPLOYEE", "status": "ACTIVE"},
				},
				"total": 11,
			},
		})
	})

	client := newTestClient(t, handler)
	page, err := client.Users(context.Background(), "tok", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Users, 1)
	assert.Equal(t, domain.RoleEmployee, page.Users[0].Role)
}
