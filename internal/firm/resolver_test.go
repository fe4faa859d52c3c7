package firm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/models"
)

type fakeFirmStore struct {
	firms map[uuid.UUID]*models.Firm
}

func (s *fakeFirmStore) GetFirm(_ context.Context, id uuid.UUID) (*models.Firm, error) {
	return s.firms[id], nil
}

type fakeAssignmentStore struct {
	byUser map[uuid.UUID][]models.FirmAssignment
	err    error
}

func (s *fakeAssignmentStore) ListActiveForUser(_ context.Context, userID uuid.UUID) ([]models.FirmAssignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byUser[userID], nil
}

func standardUser() *models.User {
	return &models.User{ID: uuid.New(), UserType: models.UserTypeStandard, IsActive: true}
}

func platformAdmin() *models.User {
	return &models.User{ID: uuid.New(), UserType: models.UserTypePlatformAdmin, IsActive: true}
}

func assignment(userID, firmID uuid.UUID, role models.Role, createdAt time.Time) models.FirmAssignment {
	return models.FirmAssignment{
		ID:          uuid.New(),
		UserID:      userID,
		FirmID:      firmID,
		Role:        role,
		AccessLevel: models.AccessLevelFull,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

func TestResolveNilUser(t *testing.T) {
	r := NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{})
	if _, err := r.Resolve(context.Background(), nil, NoFirmRequested()); !errors.Is(err, ErrNoFirmAccess) {
		t.Fatalf("err = %v, want ErrNoFirmAccess", err)
	}
}

func TestResolveNoAssignments(t *testing.T) {
	user := standardUser()
	r := NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{byUser: map[uuid.UUID][]models.FirmAssignment{}})
	if _, err := r.Resolve(context.Background(), user, NoFirmRequested()); !errors.Is(err, ErrNoFirmAccess) {
		t.Fatalf("err = %v, want ErrNoFirmAccess", err)
	}
}

func TestResolveDefaultFirmIsOldestAssignment(t *testing.T) {
	user := standardUser()
	firmA := uuid.New()
	firmB := uuid.New()
	base := time.Now().Add(-48 * time.Hour)
	// The store contract orders by creation time ascending.
	assignments := []models.FirmAssignment{
		assignment(user.ID, firmA, models.RoleOwner, base),
		assignment(user.ID, firmB, models.RoleAccountant, base.Add(time.Hour)),
	}
	r := NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{
		byUser: map[uuid.UUID][]models.FirmAssignment{user.ID: assignments},
	})

	fc, err := r.Resolve(context.Background(), user, NoFirmRequested())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.FirmID == nil || *fc.FirmID != firmA {
		t.Fatalf("acting firm = %v, want %s", fc.FirmID, firmA)
	}
	if fc.Role != models.RoleOwner {
		t.Fatalf("role = %s, want owner", fc.Role)
	}
	if fc.CanAccessAllFirms {
		t.Fatal("standard user must not get all-firms access")
	}
	if len(fc.Assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(fc.Assignments))
	}

	// Same inputs, same acting firm on every call.
	for i := 0; i < 5; i++ {
		again, err := r.Resolve(context.Background(), user, NoFirmRequested())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *again.FirmID != firmA {
			t.Fatalf("call %d: acting firm = %s, want %s", i, *again.FirmID, firmA)
		}
	}
}

func TestResolveRequestedFirm(t *testing.T) {
	user := standardUser()
	firmA := uuid.New()
	firmB := uuid.New()
	base := time.Now().Add(-time.Hour)
	r := NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{
		byUser: map[uuid.UUID][]models.FirmAssignment{user.ID: {
			assignment(user.ID, firmA, models.RoleOwner, base),
			assignment(user.ID, firmB, models.RoleTenant, base.Add(time.Minute)),
		}},
	})

	fc, err := r.Resolve(context.Background(), user, RequestedFirm(firmB))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.FirmID == nil || *fc.FirmID != firmB {
		t.Fatalf("acting firm = %v, want %s", fc.FirmID, firmB)
	}
	if fc.Role != models.RoleTenant {
		t.Fatalf("role = %s, want tenant", fc.Role)
	}
}

func TestResolveRequestedFirmNotAssigned(t *testing.T) {
	user := standardUser()
	firmA := uuid.New()
	foreign := uuid.New()
	r := NewResolver(&fakeFirmStore{firms: map[uuid.UUID]*models.Firm{
		foreign: {ID: foreign, Name: "someone else's firm", IsActive: true},
	}}, &fakeAssignmentStore{
		byUser: map[uuid.UUID][]models.FirmAssignment{user.ID: {
			assignment(user.ID, firmA, models.RoleAdmin, time.Now()),
		}},
	})

	// An existing-but-unassigned firm and a nonexistent firm deny the same
	// way, so probing ids reveals nothing about what exists.
	for _, target := range []uuid.UUID{foreign, uuid.New()} {
		if _, err := r.Resolve(context.Background(), user, RequestedFirm(target)); !errors.Is(err, ErrFirmAccessDenied) {
			t.Fatalf("firm %s: err = %v, want ErrFirmAccessDenied", target, err)
		}
	}
}

func TestResolvePlatformAdminAllFirms(t *testing.T) {
	admin := platformAdmin()
	r := NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{})

	fc, err := r.Resolve(context.Background(), admin, NoFirmRequested())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fc.AllFirms() {
		t.Fatal("expected the all-firms state")
	}
	if fc.FirmID != nil {
		t.Fatalf("firm id = %v, want nil", fc.FirmID)
	}
}

func TestResolvePlatformAdminScopedToFirm(t *testing.T) {
	admin := platformAdmin()
	firmA := uuid.New()
	inactive := uuid.New()
	r := NewResolver(&fakeFirmStore{firms: map[uuid.UUID]*models.Firm{
		firmA:    {ID: firmA, Name: "acme", IsActive: true},
		inactive: {ID: inactive, Name: "closed", IsActive: false},
	}}, &fakeAssignmentStore{})

	fc, err := r.Resolve(context.Background(), admin, RequestedFirm(firmA))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.FirmID == nil || *fc.FirmID != firmA {
		t.Fatalf("acting firm = %v, want %s", fc.FirmID, firmA)
	}
	if fc.Role != models.RoleAdmin {
		t.Fatalf("role = %s, want admin", fc.Role)
	}
	if !fc.CanAccessAllFirms {
		t.Fatal("platform admin context must keep the bypass flag")
	}
	if fc.AllFirms() {
		t.Fatal("a firm-scoped admin context is not the all-firms state")
	}

	if _, err := r.Resolve(context.Background(), admin, RequestedFirm(inactive)); !errors.Is(err, ErrFirmInactive) {
		t.Fatalf("err = %v, want ErrFirmInactive", err)
	}
	if _, err := r.Resolve(context.Background(), admin, RequestedFirm(uuid.New())); !errors.Is(err, ErrFirmNotFound) {
		t.Fatalf("err = %v, want ErrFirmNotFound", err)
	}
}

func TestResolveStoreErrorPropagates(t *testing.T) {
	user := standardUser()
	boom := errors.New("store down")
	r := NewResolver(&fakeFirmStore{}, &fakeAssignmentStore{err: boom})
	if _, err := r.Resolve(context.Background(), user, NoFirmRequested()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want store error", err)
	}
}
