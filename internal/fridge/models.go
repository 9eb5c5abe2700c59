package fridge

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultQuantity = "1"
	DefaultUnit     = "pcs"
)

// Item is a fridge item as stored.
type Item struct {
	ID             uuid.UUID  `db:"id"`
	UserID         uuid.UUID  `db:"user_id"`
	IngredientID   uuid.UUID  `db:"ingredient_id"`
	Name           string     `db:"name"`
	Quantity       string     `db:"quantity"`
	Unit           string     `db:"unit"`
	ExpirationDate *time.Time `db:"expiration_date"`
	CreatedAt      time.Time  `db:"created_at"`
}

// Response is the caller-facing projection of an Item.
type Response struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Quantity       string     `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// CreateInput carries the fields accepted when adding an item.
// Quantity and Unit fall back to DefaultQuantity and DefaultUnit.
type CreateInput struct {
	Name           string     `json:"name"`
	Quantity       *string    `json:"quantity,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name           *string    `json:"name,omitempty"`
	Quantity       *string    `json:"quantity,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// ToResponse maps a stored item to its response projection.
func ToResponse(it Item) Response {
	return Response{
		ID:             it.ID,
		Name:           it.Name,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		ExpirationDate: it.ExpirationDate,
	}
}
