package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylis/session"
	"github.com/raushankrgupta/stylis/utils"
)

type contextKey string

const generationKey contextKey = "session_generation"

// SessionTokenHeader carries the session token when no bearer token is sent.
const SessionTokenHeader = "X-Session-Token"

// requireSessionToken rejects requests whose token is missing or invalid
// (401) or names a superseded session (409).
func (h *Handler) requireSessionToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			utils.RespondError(w, h.logger, http.StatusUnauthorized, "Session token required", nil)
			return
		}

		generation, err := utils.ParseSessionToken(h.jwtSecret, token)
		if err != nil {
			utils.RespondError(w, h.logger, http.StatusUnauthorized, "Invalid session token", err)
			return
		}

		if generation != h.session.Generation() {
			utils.RespondError(w, h.logger, http.StatusConflict, "Session has changed, reload and try again", session.ErrStaleSession)
			return
		}

		ctx := context.WithValue(r.Context(), generationKey, generation)
		next(w, r.WithContext(ctx))
	}
}

// GetGenerationFromContext returns the session generation the request's token was issued for.
func GetGenerationFromContext(ctx context.Context) (uint64, error) {
	generation, ok := ctx.Value(generationKey).(uint64)
	if !ok {
		return 0, errors.New("session generation not found in context")
	}
	return generation, nil
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(SessionTokenHeader))
}

func (h *Handler) issueToken(generation uint64) string {
	token, err := utils.GenerateSessionToken(h.jwtSecret, generation)
	if err != nil {
		h.logger.Sugar().Errorf("failed to issue session token: %v", err)
		return ""
	}
	return token
}
