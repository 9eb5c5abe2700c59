package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db sqlx.ExtContext
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db sqlx.ExtContext) *PlanRepository {
	return &PlanRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *PlanRepository) WithTx(tx *sqlx.Tx) *PlanRepository {
	return &PlanRepository{db: tx}
}

// Insert stores a plan together with its days and meals.
func (r *PlanRepository) Insert(ctx context.Context, p *MealPlan) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO meal_plans
		(id, user_id, target_calories, diet, exclude_ingredients, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		p.ID, p.UserID, p.TargetCalories, p.Diet, p.Exclude, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	for _, d := range p.Days {
		_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO meal_plan_days
			(id, meal_plan_id, sort_order, day_of_week, calories, protein, fat, carbohydrates)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			d.ID, p.ID, d.SortOrder, d.DayOfWeek, d.Calories, d.Protein, d.Fat, d.Carbohydrates,
		)
		if err != nil {
			return fmt.Errorf("failed to insert meal plan day %s: %w", d.DayOfWeek, err)
		}
		for _, m := range d.Meals {
			_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO meal_plan_meals
				(id, meal_plan_day_id, sort_order, source_recipe_id, title, image, image_type, source_url, ready_in_minutes, servings)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				m.ID, d.ID, m.SortOrder, m.SourceRecipeID, m.Title, m.Image, m.ImageType, m.SourceURL, m.ReadyInMinutes, m.Servings,
			)
			if err != nil {
				return fmt.Errorf("failed to insert meal plan meal: %w", err)
			}
		}
	}
	return nil
}

// ListByUserID retrieves the meal plans of a user with days and meals, newest first.
func (r *PlanRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]MealPlan, error) {
	plans := []MealPlan{}
	err := sqlx.SelectContext(ctx, r.db, &plans, r.db.Rebind(`SELECT id, user_id, target_calories, diet, exclude_ingredients, created_at
		FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans for user %s: %w", userID, err)
	}
	if len(plans) == 0 {
		return plans, nil
	}

	planIDs := make([]uuid.UUID, len(plans))
	planIndex := make(map[uuid.UUID]int, len(plans))
	for i := range plans {
		planIDs[i] = plans[i].ID
		planIndex[plans[i].ID] = i
		plans[i].Days = []Day{}
	}

	query, args, err := sqlx.In(`SELECT id, meal_plan_id, sort_order, day_of_week, calories, protein, fat, carbohydrates
		FROM meal_plan_days WHERE meal_plan_id IN (?) ORDER BY sort_order`, planIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build meal plan day query: %w", err)
	}
	var days []Day
	if err := sqlx.SelectContext(ctx, r.db, &days, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load meal plan days: %w", err)
	}
	if len(days) == 0 {
		return plans, nil
	}

	dayIDs := make([]uuid.UUID, len(days))
	for i := range days {
		dayIDs[i] = days[i].ID
		days[i].Meals = []Meal{}
	}

	query, args, err = sqlx.In(`SELECT id, meal_plan_day_id, sort_order, source_recipe_id, title, image, image_type, source_url, ready_in_minutes, servings
		FROM meal_plan_meals WHERE meal_plan_day_id IN (?) ORDER BY sort_order`, dayIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build meal plan meal query: %w", err)
	}
	var meals []Meal
	if err := sqlx.SelectContext(ctx, r.db, &meals, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load meal plan meals: %w", err)
	}

	dayIndex := make(map[uuid.UUID]int, len(days))
	for i := range days {
		dayIndex[days[i].ID] = i
	}
	for _, m := range meals {
		i := dayIndex[m.DayID]
		days[i].Meals = append(days[i].Meals, m)
	}
	for _, d := range days {
		i := planIndex[d.MealPlanID]
		plans[i].Days = append(plans[i].Days, d)
	}
	return plans, nil
}

// DeleteOwned removes a plan with its days and meals when owned by userID.
func (r *PlanRepository) DeleteOwned(ctx context.Context, userID, planID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, r.db, &id, r.db.Rebind(`SELECT id FROM meal_plans WHERE id = ? AND user_id = ?`), planID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up meal plan: %w", err)
	}

	for _, q := range []string{
		`DELETE FROM meal_plan_meals WHERE meal_plan_day_id IN (SELECT id FROM meal_plan_days WHERE meal_plan_id = ?)`,
		`DELETE FROM meal_plan_days WHERE meal_plan_id = ?`,
		`DELETE FROM meal_plans WHERE id = ?`,
	} {
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), planID); err != nil {
			return false, fmt.Errorf("failed to delete meal plan: %w", err)
		}
	}
	return true, nil
}
