package app

import (
	"context"
	"net/http"
	"time"

	"mealplanner/internal/metrics"

	"go.uber.org/zap"
)

type healthResponse struct {
	Status string `json:"status"`
	metrics.SysHealth
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", SysHealth: metrics.GetSysHealth(a.db.DataPath)})
}

func (a *App) dbCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Error("database check failed", zap.Error(err))
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
