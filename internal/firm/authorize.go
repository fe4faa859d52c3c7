package firm

import "github.com/estateflow/backend/internal/models"

// Authorize grants an operation when the context's role level meets the
// required level. Platform-admin contexts always pass. Authorization is
// fail-closed: a nil context, an unknown context role, or an unknown
// required role all deny.
func Authorize(fc *Context, required models.Role) error {
	if fc == nil {
		return ErrInsufficientRole
	}
	if fc.CanAccessAllFirms {
		return nil
	}
	// A role outside the closed set never grants anything, on either side
	// of the comparison.
	if !required.Valid() || !fc.Role.Valid() {
		return ErrInsufficientRole
	}
	if fc.Role.Level() >= required.Level() {
		return nil
	}
	return ErrInsufficientRole
}
