package documents

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

const documentColumns = `id, firm_id, property_id, object_key, file_name, content_type, uploaded_by, created_at`

// Repository handles property document metadata; the files themselves live
// in S3. Documents carry firm_id directly so reads never rely on the join
// to properties for isolation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a documents repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create records an uploaded document.
func (r *Repository) Create(ctx context.Context, d *models.PropertyDocument) error {
	const q = `INSERT INTO property_documents (id, firm_id, property_id, object_key, file_name, content_type, uploaded_by)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, d.FirmID, d.PropertyID, d.ObjectKey, d.FileName, d.ContentType, d.UploadedBy).
		Scan(&d.ID, &d.CreatedAt)
}

// GetByID returns a document visible to the firm context, or (nil, nil)
// when it does not exist within that scope.
func (r *Repository) GetByID(ctx context.Context, fc *firm.Context, id uuid.UUID) (*models.PropertyDocument, error) {
	sql, args := scope.Select(`SELECT ` + documentColumns + ` FROM property_documents`).
		Where("id = ?", id).
		ForFirm(fc).
		SQL()
	var d models.PropertyDocument
	err := r.pool.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.FirmID, &d.PropertyID, &d.ObjectKey,
		&d.FileName, &d.ContentType, &d.UploadedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByProperty returns documents for a property visible to the firm
// context.
func (r *Repository) ListByProperty(ctx context.Context, fc *firm.Context, propertyID uuid.UUID) ([]models.PropertyDocument, error) {
	sql, args := scope.Select(`SELECT ` + documentColumns + ` FROM property_documents`).
		Where("property_id = ?", propertyID).
		ForFirm(fc).
		OrderBy("created_at DESC").
		SQL()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.PropertyDocument
	for rows.Next() {
		var d models.PropertyDocument
		if err := rows.Scan(&d.ID, &d.FirmID, &d.PropertyID, &d.ObjectKey,
			&d.FileName, &d.ContentType, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
