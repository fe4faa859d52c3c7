package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/pkg/metrics"
	"github.com/estateflow/backend/pkg/response"
)

// FirmScope returns the firm context attached by FirmContext.
func FirmScope(c *gin.Context) *firm.Context {
	v, ok := c.Get(ContextFirm)
	if !ok {
		return nil
	}
	fc, _ := v.(*firm.Context)
	return fc
}

// FirmContext resolves the acting firm for the request and attaches it for
// downstream handlers. Call after Authenticate. The firm may be requested
// through the configured header or query parameter; supplying both with
// different values is rejected rather than silently preferring one.
func FirmContext(resolver *firm.Resolver, headerName, queryParam string, auditLog *audit.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}

		sel, err := firm.SelectorFromValues(c.GetHeader(headerName), c.Query(queryParam))
		if err != nil {
			response.BadRequest(c, "invalid firm selection")
			c.Abort()
			return
		}

		fc, err := resolver.Resolve(c.Request.Context(), user, sel)
		if err != nil {
			denyFirmResolution(c, err, auditLog, user.ID.String())
			c.Abort()
			return
		}
		metrics.AuthzAllowed("firm_context")
		c.Set(ContextFirm, fc)
		c.Next()
	}
}

func denyFirmResolution(c *gin.Context, err error, auditLog *audit.Log, userID string) {
	reason := "resolver_error"
	switch {
	case errors.Is(err, firm.ErrNoFirmAccess):
		reason = "no_firm_access"
		response.ForbiddenCode(c, response.CodeNoFirmAccess, "no active firm access; contact your administrator")
	case errors.Is(err, firm.ErrFirmAccessDenied):
		reason = "firm_access_denied"
		response.Forbidden(c, "access to the requested firm is denied")
	case errors.Is(err, firm.ErrFirmNotFound):
		reason = "firm_not_found"
		response.NotFound(c, "firm not found")
	case errors.Is(err, firm.ErrFirmInactive):
		reason = "firm_inactive"
		response.NotFound(c, "firm not found")
	default:
		response.Internal(c, "firm resolution error")
	}
	metrics.AuthzDenied(reason)
	auditLog.Denied(reason,
		zap.String("user_id", userID),
		zap.String("path", c.Request.URL.Path),
	)
}
