package firm

import (
	"context"

	"github.com/google/uuid"
)

// EntityKind names a firm-scoped entity type the ownership validator knows
// about. The set is closed; unknown kinds resolve to not-found.
type EntityKind string

const (
	EntityProperty       EntityKind = "property"
	EntityDocument       EntityKind = "property_document"
	EntityUserAssignment EntityKind = "user_assignment"
)

// OwnershipValidator confirms a targeted entity belongs to the resolved
// firm before a handler mutates it.
type OwnershipValidator struct {
	store OwnershipStore
}

// NewOwnershipValidator creates an ownership validator.
func NewOwnershipValidator(store OwnershipStore) *OwnershipValidator {
	return &OwnershipValidator{store: store}
}

// Validate checks that the entity is owned by the context's firm.
//
// Platform-admin contexts pass without a lookup. Otherwise the entity's
// owning firm ids are fetched; an entity with no owners does not exist
// (ErrEntityNotFound), and one owned elsewhere is ErrOwnershipMismatch.
// The two are distinguished internally for auditing even though handlers
// surface them identically.
func (v *OwnershipValidator) Validate(ctx context.Context, kind EntityKind, id uuid.UUID, fc *Context) error {
	if fc == nil {
		return ErrEntityNotFound
	}
	if fc.CanAccessAllFirms {
		return nil
	}
	if fc.FirmID == nil {
		return ErrEntityNotFound
	}
	firmIDs, err := v.store.FirmIDsForEntity(ctx, kind, id)
	if err != nil {
		return err
	}
	if len(firmIDs) == 0 {
		return ErrEntityNotFound
	}
	for _, fid := range firmIDs {
		if fid == *fc.FirmID {
			return nil
		}
	}
	return ErrOwnershipMismatch
}
