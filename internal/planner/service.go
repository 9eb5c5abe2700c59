package planner

import (
	"context"
	"strings"
	"time"

	"mealplanner/internal/database"
	"mealplanner/internal/shared"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// OwnerLookup reports whether a user exists.
type OwnerLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service saves, lists and deletes a user's meal plans.
type Service struct {
	db     *sqlx.DB
	repo   *PlanRepository
	owners OwnerLookup
	logger *zap.Logger
}

// NewService creates a new meal plan service.
func NewService(db *sqlx.DB, repo *PlanRepository, owners OwnerLookup, logger *zap.Logger) *Service {
	return &Service{db: db, repo: repo, owners: owners, logger: logger}
}

// Save stores in as a new plan for ownerID. Days are kept in calendar order.
func (s *Service) Save(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*Response, error) {
	if len(in.Week) == 0 {
		return nil, shared.Validation("meal plan must contain at least one day")
	}
	for label, day := range in.Week {
		if strings.TrimSpace(label) == "" {
			return nil, shared.Validation("meal plan day label must not be empty")
		}
		for _, m := range day.Meals {
			if strings.TrimSpace(m.Title) == "" {
				return nil, shared.Validation("meal title is required for %s", label)
			}
		}
	}

	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NotFound("user %s not found", ownerID)
	}

	plan := &MealPlan{
		ID:             uuid.New(),
		UserID:         ownerID,
		TargetCalories: in.TargetCalories,
		Diet:           in.Diet,
		Exclude:        in.Exclude,
		CreatedAt:      time.Now().UTC(),
	}
	for i, label := range orderedDays(in.Week) {
		src := in.Week[label]
		day := Day{
			ID:            uuid.New(),
			MealPlanID:    plan.ID,
			SortOrder:     i,
			DayOfWeek:     label,
			Calories:      src.Calories,
			Protein:       src.Protein,
			Fat:           src.Fat,
			Carbohydrates: src.Carbohydrates,
			Meals:         make([]Meal, 0, len(src.Meals)),
		}
		for j, m := range src.Meals {
			day.Meals = append(day.Meals, Meal{
				ID:             uuid.New(),
				DayID:          day.ID,
				SortOrder:      j,
				SourceRecipeID: m.SpoonacularID,
				Title:          m.Title,
				Image:          m.Image,
				ImageType:      m.ImageType,
				SourceURL:      m.SourceURL,
				ReadyInMinutes: m.ReadyInMinutes,
				Servings:       m.Servings,
			})
		}
		plan.Days = append(plan.Days, day)
	}

	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.repo.WithTx(tx).Insert(ctx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("saved meal plan", zap.Stringer("plan_id", plan.ID), zap.Stringer("user_id", ownerID), zap.Int("days", len(plan.Days)))
	resp := ToResponse(*plan)
	return &resp, nil
}

// List returns the plans of ownerID; never nil.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Response, error) {
	plans, err := s.repo.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(plans))
	for _, p := range plans {
		out = append(out, ToResponse(p))
	}
	return out, nil
}

// Delete removes a plan owned by ownerID and reports whether it existed.
func (s *Service) Delete(ctx context.Context, ownerID, planID uuid.UUID) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		deleted, err = s.repo.WithTx(tx).DeleteOwned(ctx, ownerID, planID)
		return err
	})
	return deleted, err
}
