package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/authz"
	"github.com/viewtube/backend/internal/engagement"
	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	respondJSON(ctx, w, status, envelope{Success: true, Data: data, Message: message})
}

func respondMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, envelope{Success: false, Message: message})
}

// respondError maps core sentinel errors to their status codes. Unrecognized
// errors become an opaque 500; internal details never reach the response.
func respondError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("operation failed", "error", err)
		if message == "" {
			message = "internal server error"
		}
	}
	respondMessage(ctx, w, status, message)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidKey),
		errors.Is(err, engagement.ErrUnknownTargetKind),
		errors.Is(err, engagement.ErrSelfSubscription):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrAccessTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, engagement.ErrTargetNotFound),
		errors.Is(err, engagement.ErrEdgeNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrConflict),
		errors.Is(err, engagement.ErrEdgeExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// principal resolves the acting user from the request's bearer token.
func principal(r *http.Request, sessions SessionManager) (models.Key, error) {
	if sessions == nil {
		return "", auth.ErrSessionNotFound
	}
	return sessions.Identity(r.Context(), bearerToken(r))
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// pathKey parses a path parameter as an entity key.
func pathKey(r *http.Request, name string) (models.Key, error) {
	return models.ParseKey(r.PathValue(name))
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
