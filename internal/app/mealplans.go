package app

import (
	"net/http"

	"mealplanner/internal/auth"
	"mealplanner/internal/planner"
)

func (a *App) listMealPlans(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	plans, err := a.svc.MealPlans.List(r.Context(), uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, plans)
}

func (a *App) saveMealPlan(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in planner.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	plan, err := a.svc.MealPlans.Save(r.Context(), uid, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, plan)
}

func (a *App) deleteMealPlan(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	deleted, err := a.svc.MealPlans.Delete(r.Context(), uid, id)
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
