package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
)

const testFirmHeader = "X-Firm-ID"

type fakeFirmStore struct {
	firms map[uuid.UUID]*models.Firm
}

func (s *fakeFirmStore) GetFirm(_ context.Context, id uuid.UUID) (*models.Firm, error) {
	return s.firms[id], nil
}

type fakeAssignmentStore struct {
	byUser map[uuid.UUID][]models.FirmAssignment
}

func (s *fakeAssignmentStore) ListActiveForUser(_ context.Context, userID uuid.UUID) ([]models.FirmAssignment, error) {
	return s.byUser[userID], nil
}

// setUser stands in for Authenticate so firm resolution is tested alone.
func setUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUser, user)
		c.Next()
	}
}

func firmRouter(user *models.User, resolver *firm.Resolver) *gin.Engine {
	r := gin.New()
	r.GET("/scoped",
		setUser(user),
		FirmContext(resolver, testFirmHeader, "firm_id", audit.New(nil)),
		func(c *gin.Context) {
			fc := FirmScope(c)
			response.OK(c, fc)
		})
	return r
}

func TestFirmContextDefaultFirm(t *testing.T) {
	user := &models.User{ID: uuid.New(), UserType: models.UserTypeStandard, IsActive: true}
	firmID := uuid.New()
	resolver := firm.NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{
		byUser: map[uuid.UUID][]models.FirmAssignment{user.ID: {{
			ID: uuid.New(), UserID: user.ID, FirmID: firmID,
			Role: models.RoleOwner, AccessLevel: models.AccessLevelFull,
			IsActive: true, CreatedAt: time.Now(),
		}}},
	})
	r := firmRouter(user, resolver)

	w, body := doRequest(t, r, http.MethodGet, "/scoped", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if !body.Success {
		t.Fatal("expected success")
	}
}

func TestFirmContextNoFirmAccess(t *testing.T) {
	user := &models.User{ID: uuid.New(), UserType: models.UserTypeStandard, IsActive: true}
	resolver := firm.NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{})
	r := firmRouter(user, resolver)

	w, body := doRequest(t, r, http.MethodGet, "/scoped", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (%s)", w.Code, w.Body.String())
	}
	if body.Code != response.CodeNoFirmAccess {
		t.Fatalf("code = %q, want %q", body.Code, response.CodeNoFirmAccess)
	}
}

func TestFirmContextRequestedFirmDenied(t *testing.T) {
	user := &models.User{ID: uuid.New(), UserType: models.UserTypeStandard, IsActive: true}
	assigned := uuid.New()
	resolver := firm.NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{
		byUser: map[uuid.UUID][]models.FirmAssignment{user.ID: {{
			ID: uuid.New(), UserID: user.ID, FirmID: assigned,
			Role: models.RoleAdmin, AccessLevel: models.AccessLevelFull,
			IsActive: true, CreatedAt: time.Now(),
		}}},
	})
	r := firmRouter(user, resolver)

	req, _ := http.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set(testFirmHeader, uuid.New().String())
	w, body := doRawRequest(t, r, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (%s)", w.Code, w.Body.String())
	}
	if body.Code != "" {
		t.Fatalf("code = %q, want none", body.Code)
	}
}

func TestFirmContextAmbiguousSelection(t *testing.T) {
	user := &models.User{ID: uuid.New(), UserType: models.UserTypePlatformAdmin, IsActive: true}
	resolver := firm.NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{})
	r := firmRouter(user, resolver)

	req, _ := http.NewRequest(http.MethodGet, "/scoped?firm_id="+uuid.New().String(), nil)
	req.Header.Set(testFirmHeader, uuid.New().String())
	w, _ := doRawRequest(t, r, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}
}

func TestFirmContextAdminFirmNotFoundAndInactive(t *testing.T) {
	admin := &models.User{ID: uuid.New(), UserType: models.UserTypePlatformAdmin, IsActive: true}
	inactive := uuid.New()
	resolver := firm.NewResolver(&fakeFirmStore{firms: map[uuid.UUID]*models.Firm{
		inactive: {ID: inactive, Name: "closed", IsActive: false},
	}}, &fakeAssignmentStore{})
	r := firmRouter(admin, resolver)

	// Missing and deactivated firms both read as 404.
	for name, target := range map[string]uuid.UUID{
		"missing":     uuid.New(),
		"deactivated": inactive,
	} {
		req, _ := http.NewRequest(http.MethodGet, "/scoped", nil)
		req.Header.Set(testFirmHeader, target.String())
		w, _ := doRawRequest(t, r, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s firm: status = %d, want 404 (%s)", name, w.Code, w.Body.String())
		}
	}
}
