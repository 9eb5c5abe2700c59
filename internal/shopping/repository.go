package shopping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectColumns = `SELECT id, user_id, name, quantity, unit, is_purchased, created_at FROM shopping_list_items`

// Repository handles persistence of shopping list items.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new shopping list repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// Insert stores a new item.
func (r *Repository) Insert(ctx context.Context, it *Item) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO shopping_list_items
		(id, user_id, name, quantity, unit, is_purchased, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		it.ID, it.UserID, it.Name, it.Quantity, it.Unit, it.IsPurchased, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping list item: %w", err)
	}
	return nil
}

// ListByUserID returns the list of a user, unpurchased items first.
func (r *Repository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	items := []Item{}
	err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(selectColumns+` WHERE user_id = ? ORDER BY is_purchased, created_at`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list items for user %s: %w", userID, err)
	}
	return items, nil
}

// GetOwned returns the item when owned by userID, otherwise nil.
func (r *Repository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*Item, error) {
	var it Item
	err := sqlx.GetContext(ctx, r.db, &it, r.db.Rebind(selectColumns+` WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list item: %w", err)
	}
	return &it, nil
}

// Update persists the mutable fields of an owned item.
func (r *Repository) Update(ctx context.Context, it *Item) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE shopping_list_items
		SET name = ?, quantity = ?, unit = ?, is_purchased = ?
		WHERE id = ? AND user_id = ?`),
		it.Name, it.Quantity, it.Unit, it.IsPurchased, it.ID, it.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update shopping list item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteOwned removes an owned item and reports whether a row went away.
func (r *Repository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM shopping_list_items WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete shopping list item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
