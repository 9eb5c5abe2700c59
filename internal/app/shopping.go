package app

import (
	"net/http"

	"mealplanner/internal/auth"
	"mealplanner/internal/shopping"
)

func (a *App) listShoppingItems(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	items, err := a.svc.Shopping.List(r.Context(), uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, items)
}

func (a *App) addShoppingItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in shopping.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	item, err := a.svc.Shopping.Add(r.Context(), uid, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, item)
}

func (a *App) updateShoppingItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var in shopping.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	item, err := a.svc.Shopping.Update(r.Context(), uid, id, in)
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

func (a *App) deleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := pathUUID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	deleted, err := a.svc.Shopping.Delete(r.Context(), uid, id)
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
