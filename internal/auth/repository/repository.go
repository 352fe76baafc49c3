// Package repository stores staff accounts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const staffNotFoundMessage = "staff user not found"

// StaffUser is a back-office account. Every staff user has the staff role.
type StaffUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository is the staff account store.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (StaffUser, error)
	GetByEmail(ctx context.Context, email string) (StaffUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (StaffUser, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Repo implements Repository with pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new staff repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const (
	staffColumns = `id, email, password_hash, created_at, updated_at`

	createStaffQuery = `
		INSERT INTO staff_users (email, password_hash)
		VALUES ($1, $2)
		RETURNING ` + staffColumns

	getStaffByEmailQuery = `SELECT ` + staffColumns + ` FROM staff_users WHERE lower(email) = lower($1)`

	getStaffByIDQuery = `SELECT ` + staffColumns + ` FROM staff_users WHERE id = $1`

	updatePasswordQuery = `UPDATE staff_users SET password_hash = $2, updated_at = now() WHERE id = $1`
)

func (r *Repo) Create(ctx context.Context, email, passwordHash string) (StaffUser, error) {
	user, err := scanStaff(r.pool.QueryRow(ctx, createStaffQuery, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return StaffUser{}, apperr.Conflict("a staff user with this email already exists").WithOp("staff.create")
		}
		return StaffUser{}, fmt.Errorf("create staff user: %w", err)
	}
	return user, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (StaffUser, error) {
	user, err := scanStaff(r.pool.QueryRow(ctx, getStaffByEmailQuery, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffUser{}, apperr.NotFound(staffNotFoundMessage)
	}
	if err != nil {
		return StaffUser{}, fmt.Errorf("get staff user by email: %w", err)
	}
	return user, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (StaffUser, error) {
	user, err := scanStaff(r.pool.QueryRow(ctx, getStaffByIDQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffUser{}, apperr.NotFound(staffNotFoundMessage)
	}
	if err != nil {
		return StaffUser{}, fmt.Errorf("get staff user: %w", err)
	}
	return user, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, updatePasswordQuery, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update staff password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(staffNotFoundMessage)
	}
	return nil
}

func scanStaff(row pgx.Row) (StaffUser, error) {
	var user StaffUser
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}
