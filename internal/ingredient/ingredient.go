package ingredient

import (
	"strings"
	"time"

	"mealplanner/internal/shared"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ingredient is a canonical ingredient shared by fridge items and recipes.
type Ingredient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	NameKey   string    `db:"name_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Normalize trims raw and returns its title-cased display form together with
// the lower-cased key used for case-insensitive matching.
func Normalize(raw string) (display, key string, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", shared.Validation("ingredient name must not be empty")
	}
	// Casers keep state between calls, so one per call.
	display = cases.Title(language.Und).String(trimmed)
	key = strings.ToLower(trimmed)
	return display, key, nil
}
