package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestHasher(t *testing.T) {
	h := auth.NewHasher(4)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Check("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Check("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Check("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewTokens(secret, time.Hour)
	userID := uuid.New()

	issued, err := tokens.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)

	claims, err := tokens.Parse(issued.Token)
	require.NoError(t, err)

	gotUser, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)

	gotID, err := claims.TokenID()
	require.NoError(t, err)
	assert.Equal(t, issued.ID, gotID)
}

func TestTokens_Rejects(t *testing.T) {
	tokens := auth.NewTokens(secret, time.Hour)
	issued, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name   string
		parser *auth.Tokens
		token  string
	}{
		{name: "WrongSecret", parser: auth.NewTokens("ffffffffffffffffffffffffffffffff", time.Hour), token: issued.Token},
		{name: "Garbage", parser: tokens, token: "not.a.token"},
		{name: "Expired", parser: tokens, token: expiredToken(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parser.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func expiredToken(t *testing.T) string {
	t.Helper()

	issued, err := auth.NewTokens(secret, -time.Minute).Issue(uuid.New())
	require.NoError(t, err)

	return issued.Token
}

type revocations struct {
	revoked map[uuid.UUID]bool
	err     error
}

func (r revocations) IsRevoked(_ context.Context, id uuid.UUID) (bool, error) {
	return r.revoked[id], r.err
}

func TestMiddleware(t *testing.T) {
	tokens := auth.NewTokens(secret, time.Hour)
	userID := uuid.New()

	good, err := tokens.Issue(userID)
	require.NoError(t, err)

	revokedTok, err := tokens.Issue(userID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		checker  revocations
		wantCode int
	}{
		{name: "NoHeader", wantCode: http.StatusUnauthorized},
		{name: "NotBearer", header: "Token " + good.Token, wantCode: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{
			name:     "Revoked",
			header:   "Bearer " + revokedTok.Token,
			checker:  revocations{revoked: map[uuid.UUID]bool{revokedTok.ID: true}},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "CheckerFails",
			header:   "Bearer " + good.Token,
			checker:  revocations{err: errors.New("db down")},
			wantCode: http.StatusInternalServerError,
		},
		{name: "Valid", header: "Bearer " + good.Token, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen auth.Identity

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := auth.FromContext(r.Context())
				require.True(t, ok)

				seen = id

				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			auth.Middleware(tokens, tt.checker)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, userID, seen.UserID)
				assert.Equal(t, good.ID, seen.TokenID)
			}
		})
	}
}
