package spoonacular

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mealplanner/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weekBody = `{"week": {
	"Monday": {
		"meals": [
			{"id": 655219, "imageType": "jpg", "title": "Peanut Butter Oatmeal", "readyInMinutes": 10, "servings": 1, "sourceUrl": "https://example.com/oats"},
			{"id": 649931, "imageType": "", "title": "Lentil Soup", "readyInMinutes": 45, "servings": 6, "sourceUrl": "https://example.com/soup"}
		],
		"nutrients": {"calories": 1999.5, "protein": 80.1, "fat": 70, "carbohydrates": 250.25}
	},
	"tuesday": {"meals": [], "nutrients": {"calories": 0}}
}}`

const dayBody = `{
	"meals": [{"id": 1, "imageType": "png", "title": "Toast", "readyInMinutes": 5, "servings": 1}],
	"nutrients": {"calories": 300, "protein": 10, "fat": 5, "carbohydrates": 50}
}`

func TestGenerateMealPlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mealplanner/generate", r.URL.Path)
		q := r.URL.Query()
		switch q.Get("timeFrame") {
		case "week":
			assert.Equal(t, "2000", q.Get("targetCalories"))
			assert.Equal(t, "vegetarian", q.Get("diet"))
			assert.Equal(t, "shellfish, olives", q.Get("exclude"))
			fmt.Fprint(w, weekBody)
		case "day":
			assert.False(t, q.Has("targetCalories"))
			fmt.Fprint(w, dayBody)
		}
	}))
	defer server.Close()

	c, logs, _ := newTestClient(t, server.URL, time.Second)
	ctx := context.Background()

	t.Run("Week", func(t *testing.T) {
		plan, err := c.GenerateMealPlan(ctx, GenerateRequest{TargetCalories: 2000, Diet: "vegetarian", Exclude: "shellfish, olives"})
		require.NoError(t, err)
		assert.Equal(t, "week", plan.TimeFrame)
		require.Len(t, plan.Week, 2)

		monday := plan.Week["monday"]
		require.Len(t, monday.Meals, 2)
		assert.Equal(t, int64(655219), monday.Meals[0].SpoonacularID)
		assert.Equal(t, "https://spoonacular.com/recipeImages/655219-556x370.jpg", monday.Meals[0].Image)
		assert.Empty(t, monday.Meals[1].Image)
		assert.Equal(t, 1999.5, monday.Calories)
		assert.Equal(t, 250.25, monday.Carbohydrates)

		assert.Empty(t, plan.Week["tuesday"].Meals)
	})

	t.Run("Day", func(t *testing.T) {
		plan, err := c.GenerateMealPlan(ctx, GenerateRequest{TimeFrame: "Day"})
		require.NoError(t, err)
		require.Contains(t, plan.Week, "day")
		assert.Equal(t, "Toast", plan.Week["day"].Meals[0].Title)
		assert.Equal(t, 300.0, plan.Week["day"].Calories)
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := c.GenerateMealPlan(ctx, GenerateRequest{TimeFrame: "month"})
		assert.True(t, shared.IsKind(err, shared.KindValidation))

		_, err = c.GenerateMealPlan(ctx, GenerateRequest{TargetCalories: -1})
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})

	assertKeyNeverLogged(t, logs)
}

func TestGenerateMealPlanNonSuccessIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, _, _ := newTestClient(t, server.URL, time.Second)
	plan, err := c.GenerateMealPlan(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Empty(t, plan.Week)
}
