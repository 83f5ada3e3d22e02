package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/contact-backend/internal/model"
)

const adminColumns = `id::text, name, email, password_hash, role, created_at, updated_at`

// AdminRepository handles admin data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return r.scanOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1::uuid`, id)
}

// GetByEmail retrieves an admin by their unique, case-insensitive email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.scanOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE LOWER(email) = LOWER($1)`, email)
}

// Create inserts a new admin, filling in ID and timestamps.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text, created_at, updated_at`,
		a.Name, a.Email, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Count returns the number of admins.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func (r *AdminRepository) scanOne(ctx context.Context, query string, arg interface{}) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
