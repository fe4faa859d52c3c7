package firm

import (
	"context"

	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/models"
)

// FirmStore looks up firms for context resolution.
type FirmStore interface {
	// GetFirm returns the firm or (nil, nil) when it does not exist.
	GetFirm(ctx context.Context, id uuid.UUID) (*models.Firm, error)
}

// AssignmentStore loads firm assignments for context resolution.
type AssignmentStore interface {
	// ListActiveForUser returns the user's active assignments whose firm is
	// also active, ordered by assignment creation time ascending (id as a
	// tiebreaker) so the default-firm choice is deterministic.
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]models.FirmAssignment, error)
}

// OwnershipStore resolves which firm(s) own an entity.
type OwnershipStore interface {
	// FirmIDsForEntity returns the owning firm ids for the entity, or an
	// empty slice when the entity does not exist. Most kinds have exactly
	// one owner; the user-assignment kind has one per active assignment.
	FirmIDsForEntity(ctx context.Context, kind EntityKind, id uuid.UUID) ([]uuid.UUID, error)
}
