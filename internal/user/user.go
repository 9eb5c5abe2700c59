package user

import (
	"time"

	"mealplanner/internal/fridge"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/shopping"

	"github.com/google/uuid"
)

// User is a locally known account tied to an external identity.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"googleId"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	AvatarURL  *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Identity is what an external identity provider asserts about a caller.
type Identity struct {
	ExternalID string
	Name       string
	Email      string
	AvatarURL  *string
}

// Profile is the nested projection of a user and everything they own.
type Profile struct {
	ID           uuid.UUID          `json:"id"`
	GoogleID     string             `json:"googleId"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	AvatarURL    *string            `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	FridgeItems  []fridge.Response  `json:"fridgeItems"`
	SavedRecipes []recipe.Response  `json:"savedRecipes"`
	MealPlans    []planner.Response `json:"mealPlans"`
	ShoppingList []shopping.Item    `json:"shoppingList"`
}
