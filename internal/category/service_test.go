package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/category"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

func TestService_Delete(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Unused",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: userID}, nil)
				m.EXPECT().DeleteCategory(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "HasTransactions",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).
					Return(&category.Category{ID: id, UserID: userID, TransactionsCount: 1}, nil)
			},
			wantErr: category.ErrInUse,
		},
		{
			name: "HasBudgets",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).
					Return(&category.Category{ID: id, UserID: userID, BudgetsCount: 2}, nil)
			},
			wantErr: category.ErrInUse,
		},
		{
			name: "ReferencedConcurrently",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: userID}, nil)
				m.EXPECT().DeleteCategory(gomock.Any(), id).Return(category.ErrInUse)
			},
			wantErr: category.ErrInUse,
		},
		{
			name: "OtherUser",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: uuid.New()}, nil)
			},
			wantErr: apperr.ErrForbidden,
		},
		{
			name: "Missing",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(nil, category.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := category.NewService(repo).Delete(context.Background(), userID, id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_CanDelete(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name         string
		transactions int
		budgets      int
		want         bool
	}{
		{name: "Empty", want: true},
		{name: "Transactions", transactions: 3},
		{name: "Budgets", budgets: 1},
		{name: "Both", transactions: 1, budgets: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)

			id := uuid.New()
			repo.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{
				ID:                id,
				UserID:            userID,
				TransactionsCount: tt.transactions,
				BudgetsCount:      tt.budgets,
			}, nil)

			got, err := category.NewService(repo).CanDelete(context.Background(), userID, id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_EnsureOwned(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	tests := []struct {
		name    string
		stored  *category.Category
		repoErr error
		wantErr error
	}{
		{name: "Owned", stored: &category.Category{ID: id, UserID: userID}},
		{name: "Foreign", stored: &category.Category{ID: id, UserID: uuid.New()}, wantErr: apperr.ErrValidation},
		{name: "Missing", repoErr: category.ErrNotFound, wantErr: apperr.ErrValidation},
		{name: "StoreFailure", repoErr: errors.New("db down"), wantErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := category.NewMockRepository(ctrl)
			repo.EXPECT().GetCategory(gomock.Any(), id).Return(tt.stored, tt.repoErr)

			err := category.NewService(repo).EnsureOwned(context.Background(), userID, id)
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, apperr.ErrValidation):
				var ve *apperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, "category_id")
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	userID, id := uuid.New(), uuid.New()
	color := "#ff0000"

	repo.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{
		ID:     id,
		UserID: userID,
		Name:   "Food",
		Color:  &color,
	}, nil)
	repo.EXPECT().UpdateCategory(gomock.Any(), gomock.Any()).Return(nil)

	name, typ := "Groceries", category.TypeExpense

	got, err := category.NewService(repo).Update(context.Background(), userID, id, category.UpdateParams{
		Name: &name,
		Type: &typ,
	})
	require.NoError(t, err)

	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, category.TypeExpense, *got.Type)
	assert.Equal(t, "#ff0000", *got.Color)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	userID := uuid.New()
	p := paging.Params{Page: 2, PerPage: 15}

	repo.EXPECT().ListCategories(gomock.Any(), userID, 15, 15).Return([]*category.Category{{Name: "Rent"}}, nil)
	repo.EXPECT().CountCategories(gomock.Any(), userID).Return(16, nil)

	got, err := category.NewService(repo).List(context.Background(), userID, p)
	require.NoError(t, err)

	assert.Len(t, got.Data, 1)
	assert.Equal(t, 2, got.LastPage)
	assert.Equal(t, 16, got.Total)
}
