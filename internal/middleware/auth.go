package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/estateflow/backend/internal/auth"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
)

const (
	// ContextUser is the gin context key for the authenticated user record.
	ContextUser = "current_user"
	// ContextFirm is the gin context key for the resolved firm context.
	ContextFirm = "firm_context"
)

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// Authenticate validates the bearer token and resolves its subject to a live
// user record. Token verification alone is not enough: a user deactivated
// after issuance must fail here, so the directory lookup filters on the
// active flag.
func Authenticate(tokens *auth.TokenService, users auth.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.UnauthorizedCode(c, response.CodeTokenExpired, "token expired")
			} else {
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}
		user, err := users.GetActiveByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// Missing and deactivated users produce the same denial.
			if errors.Is(err, auth.ErrUserNotFound) {
				response.Unauthorized(c, "account not found or deactivated")
			} else {
				response.Internal(c, "authentication error")
			}
			c.Abort()
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}
