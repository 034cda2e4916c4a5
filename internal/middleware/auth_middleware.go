package middleware

import (
	"context"
	"strings"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/domain"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/contextutil"
	"leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityResolver turns a bearer token into a resolved caller identity.
// Implemented by the auth service.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (domain.Identity, error)
}

// AuthMiddleware resolves the Authorization bearer token and attaches the
// identity to both the Gin context and the request context.
func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			httpErr := apperror.ToHTTP(autherrors.ErrMissingToken)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		ident, err := resolver.ResolveToken(c.Request.Context(), tokenString)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Set(identityKey, ident)
		c.Set("user_id", ident.ID.String())

		ctx := contextutil.WithUserID(c.Request.Context(), ident.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	ident, ok := v.(domain.Identity)
	return ident, ok
}

// RequireRole rejects callers whose resolved role is not in the allowed set.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			response.Error(c, apperror.ErrUnauthorized.HTTPStatus, apperror.ErrUnauthorized.Code, apperror.ErrUnauthorized.Message, nil)
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if ident.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message, nil)
		c.Abort()
	}
}
