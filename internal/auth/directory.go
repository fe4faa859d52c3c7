package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/models"
)

// UserDirectory resolves a verified token's subject to a live user record.
// Implementations must treat deactivated users as not found.
type UserDirectory interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
