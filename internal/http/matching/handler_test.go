package matching_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	matchingHandler "github.com/MrJamesThe3rd/pennywise/internal/http/matching"
	"github.com/MrJamesThe3rd/pennywise/internal/matching"
)

func setup(t *testing.T, userID uuid.UUID) (*matching.MockRepository, *matching.MockCategoryChecker, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	categories := matching.NewMockCategoryChecker(ctrl)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID})))
		})
	})
	r.Route("/rules", matchingHandler.NewHandler(matching.NewService(repo, categories)).Routes)

	return repo, categories, r
}

func TestSuggest(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		query      string
		setupMock  func(repo *matching.MockRepository)
		wantStatus int
		wantBody   string
	}{
		{
			name:  "Match",
			query: "?description=COMPRA+CONTINENTE+PORTO",
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().FindMatch(gomock.Any(), userID, "COMPRA CONTINENTE PORTO").Return(&categoryID, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   categoryID.String(),
		},
		{
			name:  "NoMatch",
			query: "?description=UNKNOWN",
			setupMock: func(repo *matching.MockRepository) {
				repo.EXPECT().FindMatch(gomock.Any(), userID, "UNKNOWN").Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"category_id":null`,
		},
		{
			name:       "MissingDescription",
			setupMock:  func(*matching.MockRepository) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "The description field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, h := setup(t, userID)
			tt.setupMock(repo)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/suggest"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestLearn(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()
	repo, categories, h := setup(t, userID)

	categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
	repo.EXPECT().CreateRule(gomock.Any(), userID, "CONTINENTE", categoryID).Return(nil)

	body := `{"raw_pattern":"CONTINENTE","category_id":"` + categoryID.String() + `"}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rules", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}
