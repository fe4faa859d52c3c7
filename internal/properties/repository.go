package properties

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/internal/scope"
)

const propertyColumns = `id, firm_id, name, address, city, property_type, units, status, created_at, updated_at`

// Repository handles property persistence. Every read goes through the
// scope builder, so the firm predicate is structurally present on any
// non-all-firms context.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a properties repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(&p.ID, &p.FirmID, &p.Name, &p.Address, &p.City, &p.PropertyType,
		&p.Units, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns properties visible to the firm context, optionally filtered
// by status.
func (r *Repository) List(ctx context.Context, fc *firm.Context, status string) ([]models.Property, error) {
	q := scope.Select(`SELECT `+propertyColumns+` FROM properties`).
		ForFirm(fc).
		OrderBy("created_at DESC")
	if status != "" {
		q.Where("status = ?", status)
	}
	sql, args := q.SQL()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.FirmID, &p.Name, &p.Address, &p.City, &p.PropertyType,
			&p.Units, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID returns a property visible to the firm context, or (nil, nil)
// when it does not exist within that scope.
func (r *Repository) GetByID(ctx context.Context, fc *firm.Context, id uuid.UUID) (*models.Property, error) {
	sql, args := scope.Select(`SELECT ` + propertyColumns + ` FROM properties`).
		Where("id = ?", id).
		ForFirm(fc).
		SQL()
	return scanProperty(r.pool.QueryRow(ctx, sql, args...))
}

// Create inserts a property into the context's firm.
func (r *Repository) Create(ctx context.Context, firmID uuid.UUID, p *models.Property) error {
	const q = `INSERT INTO properties (id, firm_id, name, address, city, property_type, units, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, firm_id, created_at, updated_at`
	status := p.Status
	if status == "" {
		status = models.PropertyStatusActive
	}
	p.Status = status
	return r.pool.QueryRow(ctx, q, firmID, p.Name, p.Address, p.City, p.PropertyType, p.Units, status).
		Scan(&p.ID, &p.FirmID, &p.CreatedAt, &p.UpdatedAt)
}

// Update mutates a property within its firm. The firm id is part of the
// WHERE clause as well; ownership validation upstream is the primary gate
// and this keeps the write scoped even if a handler forgets it.
func (r *Repository) Update(ctx context.Context, firmID, id uuid.UUID, p *models.Property) (*models.Property, error) {
	const q = `UPDATE properties
		SET name = $3, address = $4, city = $5, property_type = $6, units = $7, status = $8, updated_at = NOW()
		WHERE id = $1 AND firm_id = $2
		RETURNING ` + propertyColumns
	return scanProperty(r.pool.QueryRow(ctx, q, id, firmID, p.Name, p.Address, p.City, p.PropertyType, p.Units, p.Status))
}

// Delete removes a property within its firm.
func (r *Repository) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	const q = `DELETE FROM properties WHERE id = $1 AND firm_id = $2`
	tag, err := r.pool.Exec(ctx, q, id, firmID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
