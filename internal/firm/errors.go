package firm

import "errors"

// Sentinel errors returned by the firm isolation core. All are terminal for
// the current request; handlers translate them to transport responses.
var (
	// ErrNoFirmAccess means the user has zero active firm assignments.
	ErrNoFirmAccess = errors.New("firm: no active firm access")
	// ErrFirmNotFound means the requested firm does not exist.
	ErrFirmNotFound = errors.New("firm: firm not found")
	// ErrFirmInactive means the requested firm is deactivated.
	ErrFirmInactive = errors.New("firm: firm is deactivated")
	// ErrFirmAccessDenied means the requested firm is not among the user's
	// assignments. Deliberately indistinguishable from a firm that does not
	// exist, so membership never leaks across tenants.
	ErrFirmAccessDenied = errors.New("firm: access to requested firm denied")
	// ErrInsufficientRole means the caller's role level is below the
	// required level.
	ErrInsufficientRole = errors.New("firm: insufficient role")
	// ErrEntityNotFound means the targeted entity does not exist.
	ErrEntityNotFound = errors.New("firm: entity not found")
	// ErrOwnershipMismatch means the entity exists but belongs to a
	// different firm. Handlers must map this to the same HTTP signal as
	// ErrEntityNotFound.
	ErrOwnershipMismatch = errors.New("firm: entity belongs to another firm")
	// ErrAmbiguousFirmSelection means the firm header and query parameter
	// were both supplied and disagree, or a supplied value is malformed.
	ErrAmbiguousFirmSelection = errors.New("firm: ambiguous firm selection")
)
