package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakalaundry/laundry-api/internal/domain"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

func newTestApp(tm *TokenManager) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) (err error) {
		defer func() {
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				body := fiber.Map{"code": domainErr.Code, "message": domainErr.Message}
				if domainErr.Reason != "" {
					body["reason"] = domainErr.Reason
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"error": body})
				err = nil
			}
		}()
		return c.Next()
	})

	middleware := NewAuthMiddleware(tm)
	app.Get("/protected", middleware.Handle, func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		return c.JSON(fiber.Map{"id": claims.UserID})
	})
	app.Get("/admin-only", middleware.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var payload struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.Error
}

func TestAuthMiddlewareReasonCodes(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	expiredTM := NewTokenManager("test-secret", time.Hour)
	expiredTM.ttl = -time.Minute

	expiredToken, _, err := expiredTM.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantReason string
	}{
		{name: "missing token", authHeader: "", wantReason: apperrors.ReasonNoToken},
		{name: "malformed token", authHeader: "Bearer garbage", wantReason: apperrors.ReasonInvalidToken},
		{name: "expired token", authHeader: "Bearer " + expiredToken, wantReason: apperrors.ReasonTokenExpired},
	}

	app := newTestApp(tm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.wantReason, decodeError(t, resp)["reason"])
		})
	}
}

func TestAuthMiddlewareQueryTokenFallback(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	app := newTestApp(tm)

	token, _, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	app := newTestApp(tm)

	customerToken, _, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)
	adminToken, _, err := tm.GenerateToken(&domain.User{ID: "u2", Role: domain.RoleAdmin})
	require.NoError(t, err)

	t.Run("customer token is forbidden, not unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+customerToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
