package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estateflow/backend/internal/models"
)

// ErrUserNotFound covers both a missing user and a deactivated one; callers
// cannot tell them apart. A valid token for a deactivated user must not
// authenticate, so lookups filter on the active flag.
var ErrUserNotFound = errors.New("auth: user not found or inactive")

const userColumns = `id, username, email, password_hash, full_name, user_type,
		is_active, is_verified, locale, timezone, created_at, updated_at`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var userType string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FullName, &userType,
		&u.IsActive, &u.IsVerified, &u.Locale, &u.Timezone, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.UserType = models.UserType(userType)
	return &u, nil
}

// GetActiveByID resolves a verified token's subject to a live user record.
// Deactivated users fail exactly like missing ones; this is the deliberate
// second check that stateless tokens cannot perform.
func (r *Repository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active`
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

// GetActiveByEmail returns an active user by email, for login.
func (r *Repository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active`
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, username, email, passwordHash, fullName string, userType models.UserType, locale, timezone string) (*models.User, error) {
	const q = `INSERT INTO users (username, email, password_hash, full_name, user_type, locale, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, username, email, passwordHash, fullName, string(userType), locale, timezone))
}

// UpdatePassword replaces the stored credential hash.
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deactivate soft-disables a user; outstanding tokens stop authenticating
// on the next request.
func (r *Repository) Deactivate(ctx context.Context, userID uuid.UUID) error {
	const q = `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns all users for platform administration.
func (r *Repository) List(ctx context.Context) ([]models.UserPublic, error) {
	const q = `SELECT id, username, email, full_name, user_type, is_active, is_verified,
		locale, timezone, created_at FROM users ORDER BY full_name, email`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		var userType string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &userType,
			&u.IsActive, &u.IsVerified, &u.Locale, &u.Timezone, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.UserType = models.UserType(userType)
		list = append(list, u)
	}
	return list, rows.Err()
}
