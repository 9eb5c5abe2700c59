package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectColumns = `SELECT id, external_id, name, email, avatar_url, created_at FROM users`

// Repository handles persistence of users.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new user repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// FindByExternalID returns the user bound to an external identity, or nil.
func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	return r.getOne(ctx, selectColumns+` WHERE external_id = ?`, externalID)
}

// GetByID returns the user with the given id, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, selectColumns+` WHERE id = ?`, id)
}

// Exists reports whether a user with the given id exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), id); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return n > 0, nil
}

// Insert stores a new user. A duplicate external id surfaces as the
// driver's uniqueness error.
func (r *Repository) Insert(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO users
		(id, external_id, name, email, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		u.ID, u.ExternalID, u.Name, u.Email, u.AvatarURL, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	if err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
