package firm

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/models"
)

func ctxWithRole(role models.Role) *Context {
	id := uuid.New()
	return &Context{FirmID: &id, Role: role, AccessLevel: models.AccessLevelFull}
}

func TestAuthorizeHierarchy(t *testing.T) {
	ordered := []models.Role{
		models.RoleMaintenanceStaff,
		models.RoleVendor,
		models.RoleTenant,
		models.RoleOwner,
		models.RoleAccountant,
		models.RoleAdmin,
	}

	// Every role satisfies itself and everything below, and nothing above.
	for i, held := range ordered {
		fc := ctxWithRole(held)
		for j, required := range ordered {
			err := Authorize(fc, required)
			if j <= i && err != nil {
				t.Errorf("%s should satisfy %s: %v", held, required, err)
			}
			if j > i && !errors.Is(err, ErrInsufficientRole) {
				t.Errorf("%s should not satisfy %s, got %v", held, required, err)
			}
		}
	}
}

func TestAuthorizeFailClosed(t *testing.T) {
	if err := Authorize(nil, models.RoleTenant); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("nil context: err = %v, want ErrInsufficientRole", err)
	}
	if err := Authorize(ctxWithRole("superuser"), models.RoleTenant); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("unknown held role: err = %v, want ErrInsufficientRole", err)
	}
	if err := Authorize(ctxWithRole(models.RoleAdmin), "superuser"); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("unknown required role: err = %v, want ErrInsufficientRole", err)
	}
	if err := Authorize(ctxWithRole(""), ""); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("empty roles: err = %v, want ErrInsufficientRole", err)
	}
}

func TestAuthorizePlatformAdminBypass(t *testing.T) {
	fc := &Context{CanAccessAllFirms: true}
	for _, required := range []models.Role{models.RoleAdmin, models.RoleMaintenanceStaff} {
		if err := Authorize(fc, required); err != nil {
			t.Fatalf("platform admin vs %s: %v", required, err)
		}
	}
}

func TestAuthorizeVendor(t *testing.T) {
	fc := ctxWithRole(models.RoleVendor)
	if err := Authorize(fc, models.RoleMaintenanceStaff); err != nil {
		t.Fatalf("vendor vs maintenance_staff: %v", err)
	}
	if err := Authorize(fc, models.RoleTenant); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("vendor vs tenant: err = %v, want ErrInsufficientRole", err)
	}
}
