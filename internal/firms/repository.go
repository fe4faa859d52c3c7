package firms

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estateflow/backend/internal/models"
)

// Repository handles firm and firm-assignment administration. Assignments
// and firms are deactivated, never deleted, so history survives removal.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a firms repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates a firm.
func (r *Repository) Create(ctx context.Context, firm *models.Firm) error {
	const q = `INSERT INTO firms (id, name)
		VALUES (gen_random_uuid(), $1)
		RETURNING id, is_active, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, firm.Name).
		Scan(&firm.ID, &firm.IsActive, &firm.CreatedAt, &firm.UpdatedAt)
}

// Deactivate soft-disables a firm; its assignments stop resolving on the
// next request because the resolver joins on firm activity.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE firms SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Assign gives a user a role within a firm. Any previous active assignment
// for the pair is deactivated first, preserving the one-active-role-per-firm
// invariant and keeping the old edge as history.
func (r *Repository) Assign(ctx context.Context, userID, firmID uuid.UUID, role models.Role, accessLevel string) (*models.FirmAssignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const deactivate = `UPDATE firm_assignments SET is_active = FALSE
		WHERE user_id = $1 AND firm_id = $2 AND is_active`
	if _, err := tx.Exec(ctx, deactivate, userID, firmID); err != nil {
		return nil, err
	}

	const insert = `INSERT INTO firm_assignments (id, user_id, firm_id, role, access_level)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, is_active, created_at`
	a := models.FirmAssignment{
		UserID:      userID,
		FirmID:      firmID,
		Role:        role,
		AccessLevel: accessLevel,
	}
	if err := tx.QueryRow(ctx, insert, userID, firmID, string(role), accessLevel).
		Scan(&a.ID, &a.IsActive, &a.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

// Revoke deactivates a user's active assignment to a firm. Returns
// pgx.ErrNoRows when no active assignment exists.
func (r *Repository) Revoke(ctx context.Context, userID, firmID uuid.UUID) error {
	const q = `UPDATE firm_assignments SET is_active = FALSE
		WHERE user_id = $1 AND firm_id = $2 AND is_active`
	tag, err := r.pool.Exec(ctx, q, userID, firmID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Member is a firm member with user details.
type Member struct {
	AssignmentID uuid.UUID   `json:"assignment_id"`
	UserID       uuid.UUID   `json:"user_id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FullName     string      `json:"full_name"`
	Role         models.Role `json:"role"`
	AccessLevel  string      `json:"access_level"`
	AddedAt      time.Time   `json:"added_at"`
}

// ListMembers returns active members of a firm ordered by when they were
// assigned.
func (r *Repository) ListMembers(ctx context.Context, firmID uuid.UUID) ([]Member, error) {
	const q = `SELECT fa.id, fa.user_id, u.username, u.email, u.full_name, fa.role, fa.access_level, fa.created_at
		FROM firm_assignments fa
		INNER JOIN users u ON u.id = fa.user_id
		WHERE fa.firm_id = $1 AND fa.is_active AND u.is_active
		ORDER BY fa.created_at ASC`
	rows, err := r.pool.Query(ctx, q, firmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		var role string
		if err := rows.Scan(&m.AssignmentID, &m.UserID, &m.Username, &m.Email, &m.FullName, &role, &m.AccessLevel, &m.AddedAt); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListAssignmentsForUser returns the user's active assignments to active
// firms, with firm names, oldest first.
func (r *Repository) ListAssignmentsForUser(ctx context.Context, userID uuid.UUID) ([]models.FirmAssignment, error) {
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

// ListAll returns every firm, for platform administration.
func (r *Repository) ListAll(ctx context.Context) ([]models.Firm, error) {
	const q = `SELECT id, name, is_active, created_at, updated_at FROM firms ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Firm
	for rows.Next() {
		var f models.Firm
		if err := rows.Scan(&f.ID, &f.Name, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// IsNotFound reports whether the error is the repository's no-rows signal.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
