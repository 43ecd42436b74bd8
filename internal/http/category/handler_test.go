package category_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	"github.com/MrJamesThe3rd/pennywise/internal/category"
	categoryHandler "github.com/MrJamesThe3rd/pennywise/internal/http/category"
)

func setup(t *testing.T, userID uuid.UUID) (*category.MockRepository, http.Handler) {
	t.Helper()

	repo := category.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID})))
		})
	})
	r.Route("/categories", categoryHandler.NewHandler(category.NewService(repo)).Routes)

	return repo, r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestCreate(t *testing.T) {
	userID := uuid.New()
	repo, h := setup(t, userID)

	repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *category.Category) error {
			assert.Equal(t, userID, c.UserID)
			require.NotNil(t, c.Type)
			assert.Equal(t, category.TypeExpense, *c.Type)
			c.ID = uuid.New()

			return nil
		})

	rec := serve(h, http.MethodPost, "/categories", `{"name":"Food","type":"expense"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string `json:"message"`
		Data    struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Category created successfully", body.Message)
	assert.Equal(t, "Food", body.Data.Name)
	assert.Equal(t, "expense", body.Data.Type)
}

func TestCreate_Invalid(t *testing.T) {
	_, h := setup(t, uuid.New())

	rec := serve(h, http.MethodPost, "/categories", `{"type":"gift"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "The name field is required.")
	assert.Contains(t, rec.Body.String(), "The selected type is invalid.")
}

func TestDelete(t *testing.T) {
	userID, id := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		path       string
		setupMock  func(repo *category.MockRepository)
		wantStatus int
		wantBody   string
	}{
		{
			name: "Unused",
			path: "/categories/" + id.String(),
			setupMock: func(repo *category.MockRepository) {
				repo.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: userID}, nil)
				repo.EXPECT().DeleteCategory(gomock.Any(), id).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "Category deleted successfully",
		},
		{
			name: "InUse",
			path: "/categories/" + id.String(),
			setupMock: func(repo *category.MockRepository) {
				repo.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: userID, BudgetsCount: 1}, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "Cannot delete category with associated transactions or budgets",
		},
		{
			name: "OtherUser",
			path: "/categories/" + id.String(),
			setupMock: func(repo *category.MockRepository) {
				repo.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: uuid.New()}, nil)
			},
			wantStatus: http.StatusForbidden,
			wantBody:   "Unauthorized access",
		},
		{
			name:       "MalformedID",
			path:       "/categories/42",
			setupMock:  func(*category.MockRepository) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, h := setup(t, userID)
			tt.setupMock(repo)

			rec := serve(h, http.MethodDelete, tt.path, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestList(t *testing.T) {
	userID := uuid.New()
	repo, h := setup(t, userID)

	repo.EXPECT().ListCategories(gomock.Any(), userID, 15, 15).Return([]*category.Category{{Name: "Food", TransactionsCount: 3}}, nil)
	repo.EXPECT().CountCategories(gomock.Any(), userID).Return(16, nil)

	rec := serve(h, http.MethodGet, "/categories?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Data []struct {
				Name              string `json:"name"`
				TransactionsCount int    `json:"transactions_count"`
			} `json:"data"`
			CurrentPage int `json:"current_page"`
			LastPage    int `json:"last_page"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.CurrentPage)
	assert.Equal(t, 2, body.Data.LastPage)
	require.Len(t, body.Data.Data, 1)
	assert.Equal(t, 3, body.Data.Data[0].TransactionsCount)
}

func TestStatistics(t *testing.T) {
	userID := uuid.New()
	repo, h := setup(t, userID)

	repo.EXPECT().Statistics(gomock.Any(), userID).Return([]*category.Statistic{
		{ID: uuid.New(), Name: "Food", TransactionCount: 2, TotalAmount: decimal.RequireFromString("42.5")},
	}, nil)

	rec := serve(h, http.MethodGet, "/categories/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_amount":"42.5"`)
	assert.Contains(t, rec.Body.String(), `"transaction_count":2`)
}
