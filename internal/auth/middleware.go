package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID    uuid.UUID
	TokenID   uuid.UUID
	ExpiresAt time.Time
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// RevocationChecker tells whether a token id has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)
}

// Middleware rejects requests without a valid, unrevoked bearer token.
func Middleware(tokens *Tokens, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				unauthenticated(w)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				unauthenticated(w)
				return
			}

			userID, _ := claims.UserID()
			tokenID, _ := claims.TokenID()

			isRevoked, err := revoked.IsRevoked(r.Context(), tokenID)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)

				return
			}

			if isRevoked {
				unauthenticated(w)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:    userID,
				TokenID:   tokenID,
				ExpiresAt: claims.ExpiresAt.Time,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":  false,
		"message": "Unauthenticated.",
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
