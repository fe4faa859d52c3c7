package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a firm-scoped role. The set is closed and totally ordered; anything
// outside it has level 0 and is always denied.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleAccountant       Role = "accountant"
	RoleOwner            Role = "owner"
	RoleTenant           Role = "tenant"
	RoleVendor           Role = "vendor"
	RoleMaintenanceStaff Role = "maintenance_staff"
)

var roleLevels = map[Role]int{
	RoleAdmin:            6,
	RoleAccountant:       5,
	RoleOwner:            4,
	RoleTenant:           3,
	RoleVendor:           2,
	RoleMaintenanceStaff: 1,
}

// Level returns the role's position in the hierarchy. Unknown roles return 0
// so that authorization against them always denies.
func (r Role) Level() int {
	return roleLevels[r]
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	return roleLevels[r] > 0
}

// Access levels carried by a firm assignment.
const (
	AccessLevelFull     = "full"
	AccessLevelReadOnly = "read_only"
)

// Firm is a tenant organization. Firms are soft-deactivated, never deleted
// while assignments reference them.
type Firm struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FirmAssignment links a user to a firm with a role and access level.
// A user holds at most one active assignment per firm; removal deactivates
// the row to preserve history.
type FirmAssignment struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FirmID      uuid.UUID `json:"firm_id"`
	FirmName    string    `json:"firm_name,omitempty"`
	Role        Role      `json:"role"`
	AccessLevel string    `json:"access_level"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
