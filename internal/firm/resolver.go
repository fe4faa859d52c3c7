package firm

import (
	"context"

	"github.com/estateflow/backend/internal/models"
)

// Resolver determines which single firm a request operates against and the
// caller's effective role within it. It is a pure read-then-decide function
// over the stores; it holds no per-request state.
type Resolver struct {
	firms       FirmStore
	assignments AssignmentStore
}

// NewResolver creates a firm context resolver.
func NewResolver(firms FirmStore, assignments AssignmentStore) *Resolver {
	return &Resolver{firms: firms, assignments: assignments}
}

// Resolve computes the firm context for an authenticated user and a firm
// selector.
//
// Platform-admin users bypass assignment lookup: with no firm requested they
// get the all-firms state; with a firm requested the firm must exist and be
// active. Everyone else must hold at least one active assignment to an
// active firm, and a requested firm must be among those assignments. With no
// firm requested the first assignment by creation time is the acting firm.
func (r *Resolver) Resolve(ctx context.Context, user *models.User, sel Selector) (*Context, error) {
	if user == nil {
		return nil, ErrNoFirmAccess
	}

	if user.IsPlatformAdmin() {
		id, requested := sel.Requested()
		if !requested {
			return &Context{CanAccessAllFirms: true}, nil
		}
		f, err := r.firms.GetFirm(ctx, id)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, ErrFirmNotFound
		}
		if !f.IsActive {
			return nil, ErrFirmInactive
		}
		firmID := f.ID
		return &Context{
			FirmID:            &firmID,
			Role:              models.RoleAdmin,
			AccessLevel:       models.AccessLevelFull,
			CanAccessAllFirms: true,
		}, nil
	}

	assignments, err := r.assignments.ListActiveForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, ErrNoFirmAccess
	}

	var acting *models.FirmAssignment
	if id, requested := sel.Requested(); requested {
		for i := range assignments {
			if assignments[i].FirmID == id {
				acting = &assignments[i]
				break
			}
		}
		// Same denial whether the firm does not exist or simply is not
		// assigned to this user.
		if acting == nil {
			return nil, ErrFirmAccessDenied
		}
	} else {
		// Assignments arrive ordered by creation time, so the default is
		// stable across repeated requests.
		acting = &assignments[0]
	}

	firmID := acting.FirmID
	return &Context{
		FirmID:      &firmID,
		Role:        acting.Role,
		AccessLevel: acting.AccessLevel,
		Assignments: assignments,
	}, nil
}
