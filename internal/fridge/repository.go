package fridge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectColumns = `SELECT id, user_id, ingredient_id, name, quantity, unit, expiration_date, created_at FROM fridge_items`

// Repository handles persistence of fridge items.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new fridge item repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// Insert stores a new item.
func (r *Repository) Insert(ctx context.Context, it *Item) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO fridge_items
		(id, user_id, ingredient_id, name, quantity, unit, expiration_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		it.ID, it.UserID, it.IngredientID, it.Name, it.Quantity, it.Unit, it.ExpirationDate, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fridge item: %w", err)
	}
	return nil
}

// ListByOwner returns every item owned by ownerID.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Item, error) {
	items := []Item{}
	err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(selectColumns+` WHERE user_id = ? ORDER BY created_at`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fridge items for user %s: %w", ownerID, err)
	}
	return items, nil
}

// GetOwned returns the item only when both id and owner match, otherwise nil.
func (r *Repository) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*Item, error) {
	var it Item
	err := sqlx.GetContext(ctx, r.db, &it, r.db.Rebind(selectColumns+` WHERE id = ? AND user_id = ?`), id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fridge item: %w", err)
	}
	return &it, nil
}

// OwnerOf returns the owner of an item regardless of caller. Diagnostics only.
func (r *Repository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
	var owner uuid.UUID
	err := sqlx.GetContext(ctx, r.db, &owner, r.db.Rebind(`SELECT user_id FROM fridge_items WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to look up fridge item owner: %w", err)
	}
	return owner, true, nil
}

// Update persists the mutable fields of an owned item.
func (r *Repository) Update(ctx context.Context, it *Item) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE fridge_items
		SET ingredient_id = ?, name = ?, quantity = ?, unit = ?, expiration_date = ?
		WHERE id = ? AND user_id = ?`),
		it.IngredientID, it.Name, it.Quantity, it.Unit, it.ExpirationDate, it.ID, it.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update fridge item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteOwned removes the item when owned by ownerID and reports whether a row went away.
func (r *Repository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM fridge_items WHERE id = ? AND user_id = ?`), id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete fridge item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
