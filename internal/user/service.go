package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mealplanner/internal/database"
	"mealplanner/internal/fridge"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/shared"
	"mealplanner/internal/shopping"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FridgeLister lists a user's fridge items.
type FridgeLister interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]fridge.Response, error)
}

// SavedRecipeLister lists the recipes a user saved.
type SavedRecipeLister interface {
	ListSaved(ctx context.Context, userID uuid.UUID) ([]recipe.Response, error)
}

// MealPlanLister lists a user's meal plans.
type MealPlanLister interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]planner.Response, error)
}

// ShoppingLister lists a user's shopping list.
type ShoppingLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]shopping.Item, error)
}

// Service finds or creates users and assembles their profile.
type Service struct {
	repo     *Repository
	fridge   FridgeLister
	recipes  SavedRecipeLister
	plans    MealPlanLister
	shopping ShoppingLister
	logger   *zap.Logger
}

// NewService creates a new user service.
func NewService(repo *Repository, fridgeItems FridgeLister, savedRecipes SavedRecipeLister, mealPlans MealPlanLister, shoppingList ShoppingLister, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		fridge:   fridgeItems,
		recipes:  savedRecipes,
		plans:    mealPlans,
		shopping: shoppingList,
		logger:   logger,
	}
}

// LoginOrRegister returns the user bound to id.ExternalID, creating it on
// first login. Profile fields of later logins are not applied.
func (s *Service) LoginOrRegister(ctx context.Context, id Identity) (*User, error) {
	if strings.TrimSpace(id.ExternalID) == "" {
		return nil, shared.Validation("external identity is required")
	}
	if strings.TrimSpace(id.Name) == "" {
		return nil, shared.Validation("name is required")
	}
	if strings.TrimSpace(id.Email) == "" {
		return nil, shared.Validation("email is required")
	}

	existing, err := s.repo.FindByExternalID(ctx, id.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	u := &User{
		ID:         uuid.New(),
		ExternalID: id.ExternalID,
		Name:       strings.TrimSpace(id.Name),
		Email:      strings.TrimSpace(id.Email),
		AvatarURL:  id.AvatarURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, err
		}
		// A concurrent login for the same identity won the insert.
		winner, err := s.repo.FindByExternalID(ctx, id.ExternalID)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, fmt.Errorf("user for external id vanished after uniqueness conflict")
		}
		return winner, nil
	}

	s.logger.Info("registered user", zap.Stringer("user_id", u.ID))
	return u, nil
}

// Exists reports whether a user with the given id exists.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// GetAggregateProfile loads a user with fridge items, saved recipes, meal plans and shopping list.
func (s *Service) GetAggregateProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, shared.NotFound("user %s not found", userID)
	}

	items, err := s.fridge.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fridge items: %w", err)
	}
	saved, err := s.recipes.ListSaved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved recipes: %w", err)
	}
	plans, err := s.plans.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plans: %w", err)
	}
	list, err := s.shopping.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}

	return &Profile{
		ID:           u.ID,
		GoogleID:     u.ExternalID,
		Name:         u.Name,
		Email:        u.Email,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		FridgeItems:  items,
		SavedRecipes: saved,
		MealPlans:    plans,
		ShoppingList: list,
	}, nil
}
