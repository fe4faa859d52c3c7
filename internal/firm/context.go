package firm

import (
	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/models"
)

// Context is the resolved firm scope for one request. It is derived fresh
// per request from the assignment store and never cached, so a revoked
// assignment takes effect on the very next request.
type Context struct {
	// FirmID is the acting firm. Nil only in the platform-admin
	// "all firms" state.
	FirmID *uuid.UUID `json:"firm_id"`
	// Role is the caller's role within the acting firm.
	Role        models.Role `json:"role"`
	AccessLevel string      `json:"access_level"`
	// CanAccessAllFirms is true only for platform-admin users.
	CanAccessAllFirms bool `json:"can_access_all_firms"`
	// Assignments lists the user's active assignments, for firm-switcher
	// UIs. Never used for authorization decisions.
	Assignments []models.FirmAssignment `json:"assignments,omitempty"`
}

// AllFirms reports whether the context is the explicit platform-admin
// state in which queries may target every firm. This is the only state in
// which row isolation may be skipped.
func (c *Context) AllFirms() bool {
	return c != nil && c.CanAccessAllFirms && c.FirmID == nil
}
