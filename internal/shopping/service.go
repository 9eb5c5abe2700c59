package shopping

import (
	"context"
	"strings"
	"time"

	"mealplanner/internal/shared"

	"github.com/google/uuid"
)

// OwnerLookup reports whether a user exists.
type OwnerLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service manages a user's shopping list.
type Service struct {
	repo   *Repository
	owners OwnerLookup
}

// NewService creates a new shopping list service.
func NewService(repo *Repository, owners OwnerLookup) *Service {
	return &Service{repo: repo, owners: owners}
}

// Add puts a new unpurchased item on the list of userID.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, in CreateInput) (*Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.Validation("shopping list item name is required")
	}

	ok, err := s.owners.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NotFound("user %s not found", userID)
	}

	item := &Item{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns the list of userID; never nil.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update applies the non-nil fields of in. Returns nil when no owned item matches.
func (s *Service) Update(ctx context.Context, userID, itemID uuid.UUID, in UpdateInput) (*Item, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, shared.Validation("shopping list item name must not be empty")
	}

	item, err := s.repo.GetOwned(ctx, itemID, userID)
	if err != nil || item == nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.IsPurchased != nil {
		item.IsPurchased = *in.IsPurchased
	}

	ok, err := s.repo.Update(ctx, item)
	if err != nil || !ok {
		return nil, err
	}
	return item, nil
}

// Delete removes an owned item and reports whether it existed.
func (s *Service) Delete(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	return s.repo.DeleteOwned(ctx, itemID, userID)
}
