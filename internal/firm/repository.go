package firm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estateflow/backend/internal/models"
)

// Repository is the PostgreSQL implementation of the resolver and validator
// stores. The pool is injected; nothing in this package reaches into
// process-wide state.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a firm repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetFirm returns a firm by id, or (nil, nil) when absent.
func (r *Repository) GetFirm(ctx context.Context, id uuid.UUID) (*models.Firm, error) {
	const q = `SELECT id, name, is_active, created_at, updated_at FROM firms WHERE id = $1`
	var f models.Firm
	err := r.pool.QueryRow(ctx, q, id).Scan(&f.ID, &f.Name, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListActiveForUser returns the user's active assignments joined to active
// firms, ordered by creation time ascending so default-firm selection is
// deterministic.
func (r *Repository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]models.FirmAssignment, error) {
	const q = `SELECT fa.id, fa.user_id, fa.firm_id, f.name, fa.role, fa.access_level, fa.is_active, fa.created_at
		FROM firm_assignments fa
		INNER JOIN firms f ON f.id = fa.firm_id
		WHERE fa.user_id = $1 AND fa.is_active AND f.is_active
		ORDER BY fa.created_at ASC, fa.id ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.FirmAssignment
	for rows.Next() {
		var a models.FirmAssignment
		var role string
		if err := rows.Scan(&a.ID, &a.UserID, &a.FirmID, &a.FirmName, &role, &a.AccessLevel, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Role = models.Role(role)
		list = append(list, a)
	}
	return list, rows.Err()
}

// Ownership lookup queries per entity kind. Each returns the owning firm
// id(s) for an entity id; the set is closed so an unrecognized kind can
// never be scoped incorrectly.
var ownershipQueries = map[EntityKind]string{
	EntityProperty:       `SELECT firm_id FROM properties WHERE id = $1`,
	EntityDocument:       `SELECT firm_id FROM property_documents WHERE id = $1`,
	EntityUserAssignment: `SELECT firm_id FROM firm_assignments WHERE user_id = $1 AND is_active`,
}

// FirmIDsForEntity returns all firm ids owning the entity, empty when the
// entity does not exist. Unknown kinds return empty (fail-closed).
func (r *Repository) FirmIDsForEntity(ctx context.Context, kind EntityKind, id uuid.UUID) ([]uuid.UUID, error) {
	q, ok := ownershipQueries[kind]
	if !ok {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var fid uuid.UUID
		if err := rows.Scan(&fid); err != nil {
			return nil, err
		}
		ids = append(ids, fid)
	}
	return ids, rows.Err()
}
