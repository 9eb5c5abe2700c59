package user

import (
	"context"
	"sync"
	"testing"

	"mealplanner/internal/database"
	"mealplanner/internal/database/dbtest"
	"mealplanner/internal/fridge"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/shared"
	"mealplanner/internal/shopping"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	db       *database.DB
	users    *Service
	fridge   *fridge.Service
	recipes  *recipe.Service
	plans    *planner.Service
	shopping *shopping.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.New(t)
	log := zap.NewNop()

	repo := NewRepository(db.SQL)
	ingRepo := ingredient.NewRepository(db.SQL)
	ingredients := ingredient.NewService(ingRepo, log)

	f := fixture{db: db}
	f.fridge = fridge.NewService(fridge.NewRepository(db.SQL), ingredients, repo, log)
	f.recipes = recipe.NewService(db.SQL, recipe.NewRepository(db.SQL), ingRepo, repo, log)
	f.plans = planner.NewService(db.SQL, planner.NewPlanRepository(db.SQL), repo, log)
	f.shopping = shopping.NewService(shopping.NewRepository(db.SQL), repo)
	f.users = NewService(repo, f.fridge, f.recipes, f.plans, f.shopping, log)
	return f
}

func TestLoginOrRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	avatar := "https://example.com/a.png"

	first, err := f.users.LoginOrRegister(ctx, Identity{ExternalID: "google-1", Name: "Ada", Email: "ada@example.com", AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.Name)

	again, err := f.users.LoginOrRegister(ctx, Identity{ExternalID: "google-1", Name: "Ada Lovelace", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ada", again.Name, "first-login values win")
	assert.Equal(t, "ada@example.com", again.Email)
	require.NotNil(t, again.AvatarURL)
	assert.Equal(t, avatar, *again.AvatarURL)
}

func TestLoginOrRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []Identity{
		{Name: "Ada", Email: "ada@example.com"},
		{ExternalID: "g", Email: "ada@example.com"},
		{ExternalID: "g", Name: "Ada"},
	} {
		_, err := f.users.LoginOrRegister(ctx, id)
		assert.True(t, shared.IsKind(err, shared.KindValidation), "identity %+v", id)
	}
}

func TestLoginOrRegisterConcurrentCreatesOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	names := []string{"First", "Second", "Third", "Fourth"}
	results := make([]*User, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.users.LoginOrRegister(ctx, Identity{ExternalID: "google-race", Name: name, Email: "race@example.com"})
		}(i, name)
	}
	close(start)
	wg.Wait()

	for i := range names {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].ID, results[i].ID)
		assert.Equal(t, results[0].Name, results[i].Name)
	}

	var n int
	require.NoError(t, f.db.SQL.Get(&n, f.db.SQL.Rebind(`SELECT COUNT(*) FROM users WHERE external_id = ?`), "google-race"))
	assert.Equal(t, 1, n)

	var stored string
	require.NoError(t, f.db.SQL.Get(&stored, f.db.SQL.Rebind(`SELECT name FROM users WHERE external_id = ?`), "google-race"))
	assert.Equal(t, results[0].Name, stored)
}

func TestGetAggregateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.LoginOrRegister(ctx, Identity{ExternalID: "google-2", Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	t.Run("Empty", func(t *testing.T) {
		p, err := f.users.GetAggregateProfile(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "google-2", p.GoogleID)
		assert.NotNil(t, p.FridgeItems)
		assert.Empty(t, p.FridgeItems)
		assert.Empty(t, p.SavedRecipes)
		assert.Empty(t, p.MealPlans)
		assert.Empty(t, p.ShoppingList)
	})

	t.Run("Populated", func(t *testing.T) {
		_, err := f.fridge.Create(ctx, u.ID, fridge.CreateInput{Name: "spinach"})
		require.NoError(t, err)
		_, err = f.recipes.Create(ctx, u.ID, recipe.Input{Name: "Saag", Description: "Spinach curry"})
		require.NoError(t, err)
		_, err = f.plans.Save(ctx, u.ID, planner.CreateInput{Week: map[string]planner.DayInput{
			"monday": {Meals: []planner.MealInput{{SpoonacularID: 7, Title: "Saag", Servings: 2}}},
		}})
		require.NoError(t, err)
		_, err = f.shopping.Add(ctx, u.ID, shopping.CreateInput{Name: "Paneer"})
		require.NoError(t, err)

		p, err := f.users.GetAggregateProfile(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, p.FridgeItems, 1)
		assert.Equal(t, "Spinach", p.FridgeItems[0].Name)
		require.Len(t, p.SavedRecipes, 1)
		assert.Equal(t, "Saag", p.SavedRecipes[0].Name)
		require.Len(t, p.MealPlans, 1)
		require.Len(t, p.MealPlans[0].Days, 1)
		require.Len(t, p.MealPlans[0].Days[0].Meals, 1)
		require.Len(t, p.ShoppingList, 1)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := f.users.GetAggregateProfile(ctx, uuid.New())
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
	})
}
