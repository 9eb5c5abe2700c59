package recipe

import (
	"context"
	"strings"
	"time"

	"mealplanner/internal/database"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/shared"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// IngredientLookup returns the existing ingredients among ids.
type IngredientLookup interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]ingredient.Ingredient, error)
}

// OwnerLookup reports whether a user exists.
type OwnerLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service manages locally stored recipes.
//
// Update and Delete act on any recipe by id; only the saved-recipes
// listing is scoped to a user.
type Service struct {
	db          *sqlx.DB
	repo        *Repository
	ingredients IngredientLookup
	owners      OwnerLookup
	logger      *zap.Logger
}

// NewService creates a new recipe service.
func NewService(db *sqlx.DB, repo *Repository, ingredients IngredientLookup, owners OwnerLookup, logger *zap.Logger) *Service {
	return &Service{
		db:          db,
		repo:        repo,
		ingredients: ingredients,
		owners:      owners,
		logger:      logger,
	}
}

// Create stores a recipe, links the ingredient ids that exist and marks it saved by ownerID.
// Ingredient ids that do not resolve are skipped.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in Input) (*Response, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NotFound("user %s not found", ownerID)
	}

	lines, err := s.resolveLines(ctx, in.IngredientIDs)
	if err != nil {
		return nil, err
	}

	rec := &Recipe{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Steps:       Steps(in.Steps),
		CreatedAt:   time.Now().UTC(),
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Insert(ctx, rec); err != nil {
			return err
		}
		if err := repo.ReplaceIngredients(ctx, rec.ID, lines); err != nil {
			return err
		}
		return repo.SaveForUser(ctx, ownerID, rec.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, rec.ID)
}

// List returns all recipes.
func (s *Service) List(ctx context.Context) ([]Response, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(recipes), nil
}

// ListSaved returns the recipes saved by userID.
func (s *Service) ListSaved(ctx context.Context, userID uuid.UUID) ([]Response, error) {
	recipes, err := s.repo.ListSavedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(recipes), nil
}

// Get returns a recipe by id, or nil.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	resp := ToResponse(*rec)
	return &resp, nil
}

// Update overwrites a recipe's fields. Ingredient associations are replaced
// only when in carries ingredient ids. Returns nil when the recipe is missing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Response, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	var lines []RecipeIngredient
	if len(in.IngredientIDs) > 0 {
		var err error
		if lines, err = s.resolveLines(ctx, in.IngredientIDs); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	rec := &Recipe{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Steps:       Steps(in.Steps),
		UpdatedAt:   &now,
	}

	found := false
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		var err error
		if found, err = repo.Update(ctx, rec); err != nil || !found {
			return err
		}
		if len(in.IngredientIDs) > 0 {
			return repo.ReplaceIngredients(ctx, id, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Delete removes a recipe by id and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = s.repo.WithTx(tx).Delete(ctx, id)
		return err
	})
	return deleted, err
}

func (s *Service) resolveLines(ctx context.Context, ids []uuid.UUID) ([]RecipeIngredient, error) {
	found, err := s.ingredients.ListByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	if skipped := len(dedupe(ids)) - len(found); skipped > 0 {
		s.logger.Debug("skipping unknown ingredient ids", zap.Int("count", skipped))
	}

	empty := ""
	lines := make([]RecipeIngredient, 0, len(found))
	for _, ing := range found {
		lines = append(lines, RecipeIngredient{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Amount:       defaultIngredientAmount,
			Unit:         defaultIngredientUnit,
			Note:         &empty,
		})
	}
	return lines, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.Validation("recipe name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return shared.Validation("recipe description is required")
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toResponses(recipes []Recipe) []Response {
	out := make([]Response, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ToResponse(r))
	}
	return out
}
