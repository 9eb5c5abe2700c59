package app

import (
	"net/http"
	"time"

	"mealplanner/internal/auth"
	"mealplanner/internal/user"
)

type loginRequest struct {
	Credential string `json:"credential"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	identity, err := a.verifier.Verify(r.Context(), req.Credential)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	u, err := a.svc.Users.LoginOrRegister(r.Context(), user.Identity{
		ExternalID: identity.ExternalID,
		Name:       identity.Name,
		Email:      identity.Email,
		AvatarURL:  identity.AvatarURL,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	session, err := a.tokens.Issue(auth.Subject{ID: u.ID, Email: u.Email, Name: u.Name})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, session, a.cfg.IsProduction())
	a.writeJSON(w, http.StatusOK, loginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt, User: u})
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, a.cfg.IsProduction())
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	profile, err := a.svc.Users.GetAggregateProfile(r.Context(), uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, profile)
}
