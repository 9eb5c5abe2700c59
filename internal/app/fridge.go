package app

import (
	"net/http"

	"mealplanner/internal/auth"
	"mealplanner/internal/fridge"
)

func (a *App) listIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.Ingredients.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, items)
}

func (a *App) listFridgeItems(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	items, err := a.svc.Fridge.List(r.Context(), uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, items)
}

func (a *App) createFridgeItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in fridge.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	item, err := a.svc.Fridge.Create(r.Context(), uid, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, item)
}

func (a *App) getFridgeItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	item, err := a.svc.Fridge.Get(r.Context(), id, uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if item == nil {
		a.notFound(w)
		return
	}
	a.writeJSON(w, http.StatusOK, item)
}

func (a *App) updateFridgeItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var in fridge.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	item, err := a.svc.Fridge.Update(r.Context(), id, uid, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if item == nil {
		a.notFound(w)
		return
	}
	a.writeJSON(w, http.StatusOK, item)
}

func (a *App) deleteFridgeItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	deleted, err := a.svc.Fridge.Delete(r.Context(), id, uid)
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
