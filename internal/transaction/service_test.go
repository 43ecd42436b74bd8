package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type mocks struct {
	repo       *transaction.MockRepository
	categories *transaction.MockCategoryChecker
}

func newService(t *testing.T) (*transaction.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:       transaction.NewMockRepository(ctrl),
		categories: transaction.NewMockCategoryChecker(ctrl),
	}

	return transaction.NewService(m.repo, m.categories), m
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				CategoryID:  categoryID,
				Amount:      decimal.RequireFromString("10.50"),
				Type:        transaction.TypeExpense,
				Description: "Test Transaction",
				Date:        day(2023, 10, 27),
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, userID, tx.UserID)
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "NegativeAmount",
			params: transaction.CreateParams{
				CategoryID: categoryID,
				Amount:     decimal.NewFromInt(-1),
				Type:       transaction.TypeExpense,
			},
			setupMock: func(mocks) {},
			wantErr:   transaction.ErrNegative,
		},
		{
			name: "UnknownType",
			params: transaction.CreateParams{
				CategoryID: categoryID,
				Amount:     decimal.NewFromInt(1),
				Type:       "transfer",
			},
			setupMock: func(mocks) {},
			wantErr:   transaction.ErrInvalidType,
		},
		{
			name: "ForeignCategory",
			params: transaction.CreateParams{
				CategoryID: categoryID,
				Amount:     decimal.NewFromInt(1),
				Type:       transaction.TypeIncome,
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).
					Return(apperr.Invalid("category_id", "The selected category id is invalid."))
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "RepoError",
			params: transaction.CreateParams{
				CategoryID: categoryID,
				Amount:     decimal.NewFromInt(5),
				Type:       transaction.TypeIncome,
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Create(context.Background(), userID, tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(err, apperr.ErrValidation) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Get_Ownership(t *testing.T) {
	svc, m := newService(t)

	id := uuid.New()
	m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, UserID: uuid.New()}, nil)

	_, err := svc.Get(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestService_List(t *testing.T) {
	userID := uuid.New()
	expense := transaction.TypeExpense

	tests := []struct {
		name      string
		filter    transaction.ListFilter
		setupMock func(m mocks)
		wantLen   int
		wantErr   bool
	}{
		{
			name:   "Success",
			filter: transaction.ListFilter{Type: &expense},
			setupMock: func(m mocks) {
				want := transaction.ListFilter{UserID: userID, Type: &expense, Limit: 15, Offset: 0}
				m.repo.EXPECT().
					ListTransactions(gomock.Any(), want).
					Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
				m.repo.EXPECT().CountTransactions(gomock.Any(), want).Return(2, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m mocks) {
				m.repo.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.List(context.Background(), userID, tt.filter, paging.Params{Page: 1, PerPage: 15})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Data, tt.wantLen)
			assert.Equal(t, 1, got.LastPage)
		})
	}
}

func TestService_Update(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	oldCategory, newCategory := uuid.New(), uuid.New()

	svc, m := newService(t)

	m.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{
		ID:         id,
		UserID:     userID,
		CategoryID: oldCategory,
		Type:       transaction.TypeExpense,
		Amount:     decimal.NewFromInt(10),
	}, nil)
	m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, newCategory).Return(nil)
	m.repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

	amount := decimal.RequireFromString("42.10")
	got, err := svc.Update(context.Background(), userID, id, transaction.UpdateParams{
		CategoryID: &newCategory,
		Amount:     &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, newCategory, got.CategoryID)
	assert.True(t, amount.Equal(got.Amount))
	assert.Equal(t, transaction.TypeExpense, got.Type)
}

func TestService_Summarize(t *testing.T) {
	userID := uuid.New()

	t.Run("StartAfterEnd", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Summarize(context.Background(), userID, day(2024, 2, 1), day(2024, 1, 1))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("SingleDay", func(t *testing.T) {
		svc, m := newService(t)

		d := day(2024, 3, 5)
		m.repo.EXPECT().SummaryRows(gomock.Any(), userID, d, d).Return([]transaction.SummaryRow{
			{Category: "Food", Type: transaction.TypeExpense, Total: decimal.NewFromInt(12), Count: 2},
		}, nil)

		got, err := svc.Summarize(context.Background(), userID, d, d)
		require.NoError(t, err)
		assert.True(t, got.TotalExpense.Equal(decimal.NewFromInt(12)))
		assert.True(t, got.TotalIncome.IsZero())
	})
}

func TestAggregate(t *testing.T) {
	rows := []transaction.SummaryRow{
		{Category: "Salary", Type: transaction.TypeIncome, Total: decimal.RequireFromString("3000.00"), Count: 1},
		{Category: "Food", Type: transaction.TypeExpense, Total: decimal.RequireFromString("120.50"), Count: 4},
		{Category: "Food", Type: transaction.TypeIncome, Total: decimal.RequireFromString("20.00"), Count: 1},
		{Category: "Rent", Type: transaction.TypeExpense, Total: decimal.RequireFromString("800.00"), Count: 1},
	}

	got := transaction.Aggregate(rows)

	assert.Equal(t, "3020", got.TotalIncome.String())
	assert.Equal(t, "920.5", got.TotalExpense.String())

	require.Contains(t, got.ByCategory, "Food")
	assert.Equal(t, "140.5", got.ByCategory["Food"].Total.String())
	assert.Equal(t, 5, got.ByCategory["Food"].Count)
	assert.Len(t, got.ByCategory, 3)

	empty := transaction.Aggregate(nil)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.NotNil(t, empty.ByCategory)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	svc, m := newService(t)
	itx := transaction.NewMockImportTx(gomock.NewController(t))

	userID := uuid.New()
	categoryID := uuid.New()
	params := []transaction.CreateParams{
		{
			CategoryID:  categoryID,
			Amount:      decimal.NewFromInt(10),
			Type:        transaction.TypeExpense,
			Description: "COFFEE SHOP",
			Date:        day(2024, 1, 15),
		},
	}

	m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), userID, params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, userID, result.Imported[0].UserID)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	svc, m := newService(t)
	itx := transaction.NewMockImportTx(gomock.NewController(t))

	userID := uuid.New()
	categoryID := uuid.New()
	date := day(2024, 1, 15)
	params := []transaction.CreateParams{
		{CategoryID: categoryID, Amount: decimal.RequireFromString("10.00"), Type: transaction.TypeExpense, Description: "COFFEE SHOP", Date: date},
		{CategoryID: categoryID, Amount: decimal.NewFromInt(20), Type: transaction.TypeExpense, Description: "LUNCH PLACE", Date: date},
	}

	existing := &transaction.Transaction{
		ID:          uuid.New(),
		Amount:      decimal.RequireFromString("10"),
		Type:        transaction.TypeExpense,
		Description: "COFFEE SHOP",
		Date:        date,
	}

	m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), userID, params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.ImportBatch(context.Background(), uuid.New(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	svc, m := newService(t)
	itx := transaction.NewMockImportTx(gomock.NewController(t))

	userID := uuid.New()
	categoryID := uuid.New()
	params := []transaction.CreateParams{
		{CategoryID: categoryID, Amount: decimal.NewFromInt(10), Type: transaction.TypeExpense, Description: "COFFEE SHOP", Date: day(2024, 1, 15)},
		{CategoryID: categoryID, Amount: decimal.NewFromInt(4), Type: transaction.TypeExpense, Description: "BAKERY", Date: day(2024, 1, 16)},
	}

	m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil).Times(1)
	m.repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "10", txs[0].Amount.String())
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
}
