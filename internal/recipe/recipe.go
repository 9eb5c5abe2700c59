package recipe

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultIngredientAmount = 1
	defaultIngredientUnit   = "g"
)

// Steps is an ordered list of instructions stored as a JSON array.
type Steps []string

// Value implements driver.Valuer.
func (s Steps) Value() (driver.Value, error) {
	if s == nil {
		s = Steps{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal steps: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *Steps) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Steps{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported steps column type %T", src)
	}
	var steps []string
	if err := json.Unmarshal(raw, &steps); err != nil {
		return fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	*s = steps
	return nil
}

// Recipe is a locally stored recipe with its ingredient associations.
type Recipe struct {
	ID          uuid.UUID  `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	ImageURL    *string    `db:"image_url"`
	Steps       Steps      `db:"steps"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`

	Ingredients []RecipeIngredient `db:"-"`
}

// RecipeIngredient joins a recipe to an ingredient.
type RecipeIngredient struct {
	RecipeID     uuid.UUID `db:"recipe_id"`
	IngredientID uuid.UUID `db:"ingredient_id"`
	Name         string    `db:"name"`
	Amount       float64   `db:"amount"`
	Unit         string    `db:"unit"`
	Note         *string   `db:"note"`
}

// Input carries the writable fields of a recipe. On update an empty
// IngredientIDs leaves the existing associations untouched.
type Input struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	ImageURL      *string     `json:"imageUrl,omitempty"`
	Steps         []string    `json:"steps"`
	IngredientIDs []uuid.UUID `json:"ingredientIds"`
}

// IngredientResponse is one ingredient line of a recipe.
type IngredientResponse struct {
	IngredientID uuid.UUID `json:"ingredientId"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	Unit         string    `json:"unit"`
	Note         *string   `json:"note,omitempty"`
}

// Response is the caller-facing projection of a Recipe.
type Response struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	ImageURL    *string              `json:"imageUrl,omitempty"`
	Steps       []string             `json:"steps"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   *time.Time           `json:"updatedAt,omitempty"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

// ToResponse maps a stored recipe to its response projection.
func ToResponse(r Recipe) Response {
	ingredients := make([]IngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, IngredientResponse{
			IngredientID: ri.IngredientID,
			Name:         ri.Name,
			Amount:       ri.Amount,
			Unit:         ri.Unit,
			Note:         ri.Note,
		})
	}
	steps := []string(r.Steps)
	if steps == nil {
		steps = []string{}
	}
	return Response{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Steps:       steps,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Ingredients: ingredients,
	}
}
