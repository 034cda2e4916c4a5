package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	resolveFn func(ctx context.Context, token string) (domain.Identity, error)
}

func (f *fakeResolver) ResolveToken(ctx context.Context, token string) (domain.Identity, error) {
	return f.resolveFn(ctx, token)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ident := domain.Identity{ID: uuid.New(), Name: "Jamie Park", Role: domain.RoleEmployee}

	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, token string) (domain.Identity, error) {
			if token == "good-token" {
				return ident, nil
			}
			return domain.Identity{}, autherrors.ErrInvalidToken
		},
	}

	r := gin.New()
	r.GET("/protected", AuthMiddleware(resolver), func(c *gin.Context) {
		got, ok := IdentityFrom(c)
		assert.True(t, ok)
		assert.Equal(t, ident.ID, got.ID)
		c.Status(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var res map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		errBody := res["error"].(map[string]any)
		assert.Equal(t, "AUTH_FAILED", errBody["code"])
		assert.Equal(t, "No token provided", errBody["message"])
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(ident *domain.Identity) *gin.Engine {
		r := gin.New()
		r.GET("/admin-only",
			func(c *gin.Context) {
				if ident != nil {
					c.Set("identity", *ident)
				}
				c.Next()
			},
			RequireRole(domain.RoleAdmin),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return r
	}

	t.Run("admin allowed", func(t *testing.T) {
		r := newRouter(&domain.Identity{ID: uuid.New(), Role: domain.RoleAdmin})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		r := newRouter(&domain.Identity{ID: uuid.New(), Role: domain.RoleEmployee})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		r := newRouter(nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
