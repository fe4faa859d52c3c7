package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
)

// setFirm stands in for FirmContext.
func setFirm(fc *firm.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextFirm, fc)
		c.Next()
	}
}

func roleRouter(fc *firm.Context, required models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/op", setFirm(fc), RequireRole(required, audit.New(nil)), func(c *gin.Context) {
		response.OK(c, gin.H{"ok": true})
	})
	return r
}

func TestRequireRole(t *testing.T) {
	firmID := uuid.New()
	tests := []struct {
		name     string
		role     models.Role
		required models.Role
		want     int
	}{
		{name: "exact role", role: models.RoleOwner, required: models.RoleOwner, want: http.StatusOK},
		{name: "higher role", role: models.RoleAdmin, required: models.RoleTenant, want: http.StatusOK},
		{name: "lower role", role: models.RoleVendor, required: models.RoleOwner, want: http.StatusForbidden},
		{name: "unknown role", role: "superuser", required: models.RoleTenant, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &firm.Context{FirmID: &firmID, Role: tt.role, AccessLevel: models.AccessLevelFull}
			r := roleRouter(fc, tt.required)
			w, _ := doRequest(t, r, http.MethodGet, "/op", "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireRolePlatformAdminBypass(t *testing.T) {
	fc := &firm.Context{CanAccessAllFirms: true}
	r := roleRouter(fc, models.RoleAdmin)
	w, _ := doRequest(t, r, http.MethodGet, "/op", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
}

func TestRequireRoleMissingFirmContext(t *testing.T) {
	r := gin.New()
	r.GET("/op", RequireRole(models.RoleTenant, audit.New(nil)), func(c *gin.Context) {
		response.OK(c, gin.H{"ok": true})
	})
	w, _ := doRequest(t, r, http.MethodGet, "/op", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (%s)", w.Code, w.Body.String())
	}
}

func TestRequirePlatformAdmin(t *testing.T) {
	makeRouter := func(user *models.User) *gin.Engine {
		r := gin.New()
		r.GET("/admin", setUser(user), RequirePlatformAdmin(audit.New(nil)), func(c *gin.Context) {
			response.OK(c, gin.H{"ok": true})
		})
		return r
	}

	admin := &models.User{ID: uuid.New(), UserType: models.UserTypePlatformAdmin, IsActive: true}
	w, _ := doRequest(t, makeRouter(admin), http.MethodGet, "/admin", "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	standard := &models.User{ID: uuid.New(), UserType: models.UserTypeStandard, IsActive: true}
	w, _ = doRequest(t, makeRouter(standard), http.MethodGet, "/admin", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("standard status = %d, want 403 (%s)", w.Code, w.Body.String())
	}
}
