package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectColumns = `SELECT r.id, r.name, r.description, r.image_url, r.steps, r.created_at, r.updated_at FROM recipes r`

// Repository is a database-backed repository for recipes.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new Repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

// Insert stores the recipe row only.
func (r *Repository) Insert(ctx context.Context, rec *Recipe) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO recipes
		(id, name, description, image_url, steps, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Name, rec.Description, rec.ImageURL, rec.Steps, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// Update overwrites the scalar fields of a recipe and reports whether it exists.
func (r *Repository) Update(ctx context.Context, rec *Recipe) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE recipes
		SET name = ?, description = ?, image_url = ?, steps = ?, updated_at = ?
		WHERE id = ?`),
		rec.Name, rec.Description, rec.ImageURL, rec.Steps, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update recipe: %w", err)
	}
	return affected(res)
}

// ReplaceIngredients swaps the association set of a recipe for lines.
func (r *Repository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, lines []RecipeIngredient) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`), recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	for _, line := range lines {
		_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO recipe_ingredients
			(recipe_id, ingredient_id, amount, unit, note) VALUES (?, ?, ?, ?, ?)`),
			recipeID, line.IngredientID, line.Amount, line.Unit, line.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}
	return nil
}

// SaveForUser records that userID saved recipeID.
func (r *Repository) SaveForUser(ctx context.Context, userID, recipeID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO saved_recipes (user_id, recipe_id) VALUES (?, ?)`), userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to save recipe for user: %w", err)
	}
	return nil
}

// Delete removes a recipe and its associations.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, q := range []string{
		`DELETE FROM recipe_ingredients WHERE recipe_id = ?`,
		`DELETE FROM saved_recipes WHERE recipe_id = ?`,
	} {
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), id); err != nil {
			return false, fmt.Errorf("failed to delete recipe associations: %w", err)
		}
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM recipes WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}
	return affected(res)
}

// Get retrieves a recipe with its ingredients, or nil.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	var rec Recipe
	err := sqlx.GetContext(ctx, r.db, &rec, r.db.Rebind(selectColumns+` WHERE r.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	recipes := []Recipe{rec}
	if err := r.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// List returns every recipe with its ingredients, newest first.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	recipes := []Recipe{}
	if err := sqlx.SelectContext(ctx, r.db, &recipes, selectColumns+` ORDER BY r.created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if err := r.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListSavedBy returns the recipes saved by userID with their ingredients.
func (r *Repository) ListSavedBy(ctx context.Context, userID uuid.UUID) ([]Recipe, error) {
	recipes := []Recipe{}
	err := sqlx.SelectContext(ctx, r.db, &recipes, r.db.Rebind(selectColumns+`
		JOIN saved_recipes s ON s.recipe_id = r.id
		WHERE s.user_id = ?
		ORDER BY r.created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes for user %s: %w", userID, err)
	}
	if err := r.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// attachIngredients loads the ingredient lines of recipes in one query.
func (r *Repository) attachIngredients(ctx context.Context, recipes []Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Ingredients = []RecipeIngredient{}
	}

	query, args, err := sqlx.In(`SELECT ri.recipe_id, ri.ingredient_id, i.name, ri.amount, ri.unit, ri.note
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (?)
		ORDER BY i.name_key`, ids)
	if err != nil {
		return fmt.Errorf("failed to build recipe ingredient query: %w", err)
	}

	var lines []RecipeIngredient
	if err := sqlx.SelectContext(ctx, r.db, &lines, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	for _, line := range lines {
		i := index[line.RecipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, line)
	}
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
