package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/metrics"
	"github.com/estateflow/backend/pkg/response"
)

// RequireRole allows the request when the firm context's role level meets
// the required role's level. Higher roles always satisfy lower requirements;
// platform-admin contexts always pass. Call after FirmContext.
func RequireRole(required models.Role, auditLog *audit.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		fc := FirmScope(c)
		if fc == nil {
			response.Unauthorized(c, "missing firm context")
			c.Abort()
			return
		}
		if err := firm.Authorize(fc, required); err != nil {
			metrics.AuthzDenied("insufficient_role")
			fields := []zap.Field{
				zap.String("required_role", string(required)),
				zap.String("role", string(fc.Role)),
				zap.String("path", c.Request.URL.Path),
			}
			if user := CurrentUser(c); user != nil {
				fields = append(fields, zap.String("user_id", user.ID.String()))
			}
			auditLog.Denied("insufficient_role", fields...)
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		metrics.AuthzAllowed("role")
		c.Next()
	}
}

// RequirePlatformAdmin restricts a route to platform operators. Call after
// Authenticate; no firm context is needed.
func RequirePlatformAdmin(auditLog *audit.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		if !user.IsPlatformAdmin() {
			metrics.AuthzDenied("not_platform_admin")
			auditLog.Denied("not_platform_admin",
				zap.String("user_id", user.ID.String()),
				zap.String("path", c.Request.URL.Path),
			)
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
