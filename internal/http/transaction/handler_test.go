package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	txHandler "github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type mocks struct {
	repo       *transaction.MockRepository
	categories *transaction.MockCategoryChecker
}

func setup(t *testing.T, userID uuid.UUID) (mocks, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:       transaction.NewMockRepository(ctrl),
		categories: transaction.NewMockCategoryChecker(ctrl),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID})))
		})
	})
	r.Route("/transactions", txHandler.NewHandler(transaction.NewService(m.repo, m.categories)).Routes)

	return m, r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(m mocks)
		wantStatus int
		wantBody   string
	}{
		{
			name: "Success",
			body: `{"category_id":"` + categoryID.String() + `","type":"expense","amount":"12.30","date":"2024-01-05","description":"Lunch"}`,
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
				m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, day(5), tx.Date)
						assert.True(t, decimal.RequireFromString("12.3").Equal(tx.Amount))
						tx.CategoryName = "Food"

						return nil
					})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"date":"2024-01-05"`,
		},
		{
			name:       "ZeroAmountMissingDate",
			body:       `{"category_id":"` + categoryID.String() + `","type":"expense","amount":0}`,
			setupMock:  func(mocks) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "The date field is required.",
		},
		{
			name: "ForeignCategory",
			body: `{"category_id":"` + categoryID.String() + `","type":"income","amount":5,"date":"2024-01-05"}`,
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).
					Return(apperr.Invalid("category_id", "The selected category id is invalid."))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "The selected category id is invalid.",
		},
		{
			name:       "UnknownField",
			body:       `{"category_id":"` + categoryID.String() + `","type":"income","amount":5,"date":"2024-01-05","user_id":"x"}`,
			setupMock:  func(mocks) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "The user id field is not allowed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, h := setup(t, userID)
			tt.setupMock(m)

			rec := serve(h, http.MethodPost, "/transactions", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestList_Filters(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()
	m, h := setup(t, userID)

	start, end := day(1), day(31)
	typ := transaction.TypeExpense
	want := transaction.ListFilter{
		UserID:     userID,
		CategoryID: &categoryID,
		Type:       &typ,
		StartDate:  &start,
		EndDate:    &end,
		Limit:      15,
	}
	m.repo.EXPECT().ListTransactions(gomock.Any(), want).Return(nil, nil)
	m.repo.EXPECT().CountTransactions(gomock.Any(), want).Return(0, nil)

	rec := serve(h, http.MethodGet, "/transactions?type=expense&start_date=2024-01-01&end_date=2024-01-31&category_id="+categoryID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestList_BadFilter(t *testing.T) {
	_, h := setup(t, uuid.New())

	rec := serve(h, http.MethodGet, "/transactions?start_date=yesterday", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSummary(t *testing.T) {
	userID := uuid.New()
	m, h := setup(t, userID)

	m.repo.EXPECT().SummaryRows(gomock.Any(), userID, day(1), day(31)).Return([]transaction.SummaryRow{
		{Category: "Salary", Type: transaction.TypeIncome, Total: decimal.RequireFromString("1000"), Count: 1},
		{Category: "Food", Type: transaction.TypeExpense, Total: decimal.RequireFromString("250"), Count: 2},
	}, nil)

	rec := serve(h, http.MethodGet, "/transactions/summary?start_date=2024-01-01&end_date=2024-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			TotalIncome  decimal.Decimal `json:"total_income"`
			TotalExpense decimal.Decimal `json:"total_expense"`
			ByCategory   map[string]struct {
				Total decimal.Decimal `json:"total"`
				Count int             `json:"count"`
			} `json:"by_category"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, decimal.RequireFromString("1000").Equal(body.Data.TotalIncome))
	assert.True(t, decimal.RequireFromString("250").Equal(body.Data.TotalExpense))
	assert.Equal(t, 2, body.Data.ByCategory["Food"].Count)
}

func TestSummary_Validation(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantBody string
	}{
		{name: "Missing", query: "", wantBody: "The start date field is required."},
		{name: "Inverted", query: "?start_date=2024-02-01&end_date=2024-01-01", wantBody: "The end date must be a date after or equal to start date."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := setup(t, uuid.New())

			rec := serve(h, http.MethodGet, "/transactions/summary"+tt.query, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestGet_OtherUser(t *testing.T) {
	m, h := setup(t, uuid.New())

	id := uuid.New()
	m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, UserID: uuid.New()}, nil)

	rec := serve(h, http.MethodGet, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
