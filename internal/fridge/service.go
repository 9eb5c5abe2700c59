package fridge

import (
	"context"
	"strings"
	"time"

	"mealplanner/internal/ingredient"
	"mealplanner/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngredientResolver maps raw names to canonical ingredients.
type IngredientResolver interface {
	Resolve(ctx context.Context, raw string) (*ingredient.Ingredient, error)
}

// OwnerLookup reports whether a user exists.
type OwnerLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service owns CRUD over a user's fridge inventory. Every read and
// mutation is scoped to the caller's user id.
type Service struct {
	repo        *Repository
	ingredients IngredientResolver
	owners      OwnerLookup
	logger      *zap.Logger
}

// NewService creates a new fridge item service.
func NewService(repo *Repository, ingredients IngredientResolver, owners OwnerLookup, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		ingredients: ingredients,
		owners:      owners,
		logger:      logger,
	}
}

// Create adds an item for ownerID, creating the ingredient on first sight.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*Response, error) {
	if _, _, err := ingredient.Normalize(in.Name); err != nil {
		return nil, err
	}

	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NotFound("user %s not found", ownerID)
	}

	ing, err := s.ingredients.Resolve(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ID:             uuid.New(),
		UserID:         ownerID,
		IngredientID:   ing.ID,
		Name:           ing.Name,
		Quantity:       valueOr(in.Quantity, DefaultQuantity),
		Unit:           valueOr(in.Unit, DefaultUnit),
		ExpirationDate: utc(in.ExpirationDate),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}

	resp := ToResponse(*item)
	return &resp, nil
}

// List returns all items owned by ownerID; never nil.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Response, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(items))
	for _, it := range items {
		out = append(out, ToResponse(it))
	}
	return out, nil
}

// Get returns the item when owned by ownerID, otherwise nil.
func (s *Service) Get(ctx context.Context, itemID, ownerID uuid.UUID) (*Response, error) {
	item, err := s.repo.GetOwned(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		s.logMiss(ctx, "get", itemID, ownerID)
		return nil, nil
	}
	resp := ToResponse(*item)
	return &resp, nil
}

// Update applies the non-nil fields of in to an owned item. A new name
// re-resolves the ingredient. Returns nil when no owned item matches.
func (s *Service) Update(ctx context.Context, itemID, ownerID uuid.UUID, in UpdateInput) (*Response, error) {
	if in.Name != nil {
		if _, _, err := ingredient.Normalize(*in.Name); err != nil {
			return nil, err
		}
	}

	item, err := s.repo.GetOwned(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		s.logMiss(ctx, "update", itemID, ownerID)
		return nil, nil
	}

	if in.Name != nil {
		ing, err := s.ingredients.Resolve(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		item.IngredientID = ing.ID
		item.Name = ing.Name
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.ExpirationDate != nil {
		item.ExpirationDate = utc(in.ExpirationDate)
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Deleted between read and write.
		return nil, nil
	}

	resp := ToResponse(*item)
	return &resp, nil
}

// Delete removes an owned item and reports whether it existed.
func (s *Service) Delete(ctx context.Context, itemID, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.repo.DeleteOwned(ctx, itemID, ownerID)
	if err != nil {
		return false, err
	}
	if !deleted {
		s.logMiss(ctx, "delete", itemID, ownerID)
	}
	return deleted, nil
}

// logMiss records why an owned lookup failed. The distinction stays in the logs.
func (s *Service) logMiss(ctx context.Context, op string, itemID, ownerID uuid.UUID) {
	owner, found, err := s.repo.OwnerOf(ctx, itemID)
	fields := []zap.Field{
		zap.String("op", op),
		zap.Stringer("item_id", itemID),
		zap.Stringer("caller_id", ownerID),
	}
	switch {
	case err != nil:
		s.logger.Warn("fridge item ownership diagnostic failed", append(fields, zap.Error(err))...)
	case found:
		s.logger.Debug("fridge item belongs to another user", append(fields, zap.Stringer("owner_id", owner))...)
	default:
		s.logger.Debug("fridge item does not exist", fields...)
	}
}

func valueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
