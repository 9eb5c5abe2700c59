package app

import (
	"net/http"

	"mealplanner/internal/auth"
	"mealplanner/internal/recipe"
)

func (a *App) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := a.svc.Recipes.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, recipes)
}

func (a *App) listSavedRecipes(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	recipes, err := a.svc.Recipes.ListSaved(r.Context(), uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, recipes)
}

func (a *App) createRecipe(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in recipe.Input
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	created, err := a.svc.Recipes.Create(r.Context(), uid, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, created)
}

func (a *App) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	found, err := a.svc.Recipes.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if found == nil {
		a.notFound(w)
		return
	}
	a.writeJSON(w, http.StatusOK, found)
}

// updateRecipe and deleteRecipe act on any recipe id; see recipe.Service.
func (a *App) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var in recipe.Input
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	updated, err := a.svc.Recipes.Update(r.Context(), id, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if updated == nil {
		a.notFound(w)
		return
	}
	a.writeJSON(w, http.StatusOK, updated)
}

func (a *App) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	deleted, err := a.svc.Recipes.Delete(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !deleted {
		a.notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
