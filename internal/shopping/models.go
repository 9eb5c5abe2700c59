package shopping

import (
	"time"

	"github.com/google/uuid"
)

// Item is a line on a user's shopping list.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"-"`
	Name        string    `db:"name" json:"name"`
	Quantity    string    `db:"quantity" json:"quantity"`
	Unit        string    `db:"unit" json:"unit"`
	IsPurchased bool      `db:"is_purchased" json:"isPurchased"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CreateInput carries the fields accepted when adding an item.
type CreateInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Quantity    *string `json:"quantity,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	IsPurchased *bool   `json:"isPurchased,omitempty"`
}
