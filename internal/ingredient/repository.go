package ingredient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectColumns = `SELECT id, name, name_key, created_at FROM ingredients`

// Repository handles persistence of ingredients.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new ingredient repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

// FindByKey returns the ingredient whose normalized key matches, or nil.
func (r *Repository) FindByKey(ctx context.Context, key string) (*Ingredient, error) {
	var ing Ingredient
	err := sqlx.GetContext(ctx, r.db, &ing, r.db.Rebind(selectColumns+` WHERE name_key = ?`), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient by key: %w", err)
	}
	return &ing, nil
}

// GetByID returns the ingredient with the given id, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Ingredient, error) {
	var ing Ingredient
	err := sqlx.GetContext(ctx, r.db, &ing, r.db.Rebind(selectColumns+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// Insert stores a new ingredient. A duplicate key surfaces as the driver's
// uniqueness error; see database.IsUniqueViolation.
func (r *Repository) Insert(ctx context.Context, ing *Ingredient) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO ingredients (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`),
		ing.ID, ing.Name, ing.NameKey, ing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

// List returns every ingredient ordered by name.
func (r *Repository) List(ctx context.Context) ([]Ingredient, error) {
	ingredients := []Ingredient{}
	if err := sqlx.SelectContext(ctx, r.db, &ingredients, selectColumns+` ORDER BY name_key`); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// ListByIDs returns the ingredients among ids that exist. Unknown ids are ignored.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Ingredient, error) {
	ingredients := []Ingredient{}
	if len(ids) == 0 {
		return ingredients, nil
	}

	query, args, err := sqlx.In(selectColumns+` WHERE id IN (?) ORDER BY name_key`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build ingredient lookup: %w", err)
	}
	if err := sqlx.SelectContext(ctx, r.db, &ingredients, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list ingredients by id: %w", err)
	}
	return ingredients, nil
}
