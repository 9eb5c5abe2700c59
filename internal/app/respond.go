package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"mealplanner/internal/shared"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps err onto a status code. Only validation errors expose
// their message; everything else gets a fixed text.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}

	switch shared.KindOf(err) {
	case shared.KindValidation:
		msg := err.Error()
		var appErr *shared.Error
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
	case shared.KindNotFound:
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case shared.KindUnauthorized:
		a.logger.Info("unauthorized request", fields...)
		a.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case shared.KindTimeout:
		a.logger.Error("recipe service timed out", fields...)
		a.writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "recipe service timed out"})
	case shared.KindUpstream, shared.KindUpstreamFormat:
		a.logger.Error("recipe service failed", fields...)
		a.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recipe service unavailable"})
	default:
		a.logger.Error("request failed", fields...)
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (a *App) notFound(w http.ResponseWriter) {
	a.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.Validation("request body is required")
		}
		return shared.Validation("invalid request body: %v", err)
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, shared.Validation("%s must be a valid id", name)
	}
	return id, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, shared.Validation("%s must be an integer", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.Validation("%s must be an integer", name)
	}
	return n, nil
}
