package app

import (
	"net/http"

	"mealplanner/internal/spoonacular"
)

func (a *App) searchRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := spoonacular.NewSearchRequest()
	req.Query = q.Get("query")
	req.Cuisine = q.Get("cuisine")
	req.Diet = q.Get("diet")
	req.IncludeIngredients = q.Get("includeIngredients")
	req.ExcludeIngredients = q.Get("excludeIngredients")
	req.Next = q.Get("next")
	if v := q.Get("type"); v != "" {
		req.Type = v
	}

	var err error
	if req.Number, err = queryInt(r, "number", spoonacular.DefaultNumber); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Offset, err = queryInt(r, "offset", 0); err != nil {
		a.writeError(w, r, err)
		return
	}

	res, err := a.svc.RecipeAPI.Search(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, res)
}

func (a *App) recipeDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	details, err := a.svc.RecipeAPI.Details(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if details == nil {
		a.notFound(w)
		return
	}
	a.writeJSON(w, http.StatusOK, details)
}

func (a *App) generateMealPlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	calories, err := queryInt(r, "targetCalories", 0)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	plan, err := a.svc.RecipeAPI.GenerateMealPlan(r.Context(), spoonacular.GenerateRequest{
		TimeFrame:      q.Get("timeFrame"),
		TargetCalories: calories,
		Diet:           q.Get("diet"),
		Exclude:        q.Get("exclude"),
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, plan)
}
