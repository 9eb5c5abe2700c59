package ingredient

import (
	"context"
	"fmt"
	"time"

	"mealplanner/internal/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service resolves raw ingredient names to canonical ingredients.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new ingredient service.
func NewService(repo *Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve finds the ingredient matching raw case-insensitively or creates it.
// Blank input fails with a validation error before any storage access.
func (s *Service) Resolve(ctx context.Context, raw string) (*Ingredient, error) {
	display, key, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	ing := &Ingredient{
		ID:        uuid.New(),
		Name:      display,
		NameKey:   key,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, ing); err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, err
		}
		// Lost the race to a concurrent insert of the same name.
		s.logger.Debug("ingredient created concurrently, re-reading", zap.String("key", key))
		winner, err := s.repo.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, fmt.Errorf("ingredient %q vanished after uniqueness conflict", key)
		}
		return winner, nil
	}

	s.logger.Info("created ingredient", zap.String("name", ing.Name), zap.Stringer("id", ing.ID))
	return ing, nil
}

// List returns all canonical ingredients.
func (s *Service) List(ctx context.Context) ([]Ingredient, error) {
	return s.repo.List(ctx)
}
