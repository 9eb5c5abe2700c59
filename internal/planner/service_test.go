package planner

import (
	"context"
	"testing"

	"mealplanner/internal/database"
	"mealplanner/internal/database/dbtest"
	"mealplanner/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userTable struct {
	db *database.DB
}

func (u userTable) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	err := u.db.SQL.GetContext(ctx, &n, u.db.SQL.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), id)
	return n > 0, err
}

func newService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db := dbtest.New(t)
	return NewService(db.SQL, NewPlanRepository(db.SQL), userTable{db: db}, zap.NewNop()), db
}

func sampleWeek() CreateInput {
	calories := 2000
	diet := "vegetarian"
	img := "https://spoonacular.com/recipeImages/1-556x370.jpg"
	return CreateInput{
		TargetCalories: &calories,
		Diet:           &diet,
		Week: map[string]DayInput{
			"wednesday": {Calories: 1900, Meals: []MealInput{{SpoonacularID: 3, Title: "Soup", ReadyInMinutes: 30, Servings: 2}}},
			"monday": {Calories: 2010, Protein: 80, Fat: 60, Carbohydrates: 250, Meals: []MealInput{
				{SpoonacularID: 1, Title: "Oats", Image: &img, ReadyInMinutes: 10, Servings: 1},
				{SpoonacularID: 2, Title: "Curry", ReadyInMinutes: 45, Servings: 4},
			}},
			"tuesday": {Calories: 1980},
		},
	}
}

func TestSaveAndList(t *testing.T) {
	svc, db := newService(t)
	owner := dbtest.CreateUser(t, db, "alice")
	ctx := context.Background()

	saved, err := svc.Save(ctx, owner, sampleWeek())
	require.NoError(t, err)
	require.Len(t, saved.Days, 3)

	plans, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	plan := plans[0]
	assert.Equal(t, saved.ID, plan.ID)
	require.NotNil(t, plan.TargetCalories)
	assert.Equal(t, 2000, *plan.TargetCalories)

	labels := []string{plan.Days[0].DayOfWeek, plan.Days[1].DayOfWeek, plan.Days[2].DayOfWeek}
	assert.Equal(t, []string{"monday", "tuesday", "wednesday"}, labels)

	monday := plan.Days[0]
	assert.Equal(t, 2010.0, monday.Calories)
	assert.Equal(t, 80.0, monday.Protein)
	require.Len(t, monday.Meals, 2)
	assert.Equal(t, "Oats", monday.Meals[0].Title)
	assert.Equal(t, int64(1), monday.Meals[0].SpoonacularID)
	require.NotNil(t, monday.Meals[0].Image)
	assert.Equal(t, "Curry", monday.Meals[1].Title)
	assert.Empty(t, plan.Days[1].Meals)
	assert.NotNil(t, plan.Days[1].Meals)
}

func TestSaveValidation(t *testing.T) {
	svc, db := newService(t)
	owner := dbtest.CreateUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.Save(ctx, owner, CreateInput{})
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = svc.Save(ctx, owner, CreateInput{Week: map[string]DayInput{"monday": {Meals: []MealInput{{Title: " "}}}}})
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = svc.Save(ctx, uuid.New(), sampleWeek())
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestDeleteIsScopedToOwner(t *testing.T) {
	svc, db := newService(t)
	alice := dbtest.CreateUser(t, db, "alice")
	bob := dbtest.CreateUser(t, db, "bob")
	ctx := context.Background()

	plan, err := svc.Save(ctx, alice, sampleWeek())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, bob, plan.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	bobPlans, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobPlans)

	deleted, err = svc.Delete(ctx, alice, plan.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var meals int
	require.NoError(t, db.SQL.Get(&meals, "SELECT COUNT(*) FROM meal_plan_meals"))
	assert.Zero(t, meals)

	plans, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestOrderedDays(t *testing.T) {
	week := map[string]DayInput{"Sunday": {}, "extra": {}, "monday": {}, "Friday": {}}
	assert.Equal(t, []string{"monday", "Friday", "Sunday", "extra"}, orderedDays(week))
}
