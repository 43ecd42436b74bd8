package budget_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/budget"
	"github.com/MrJamesThe3rd/pennywise/internal/paging"
)

type mocks struct {
	repo       *budget.MockRepository
	wtx        *budget.MockWriteTx
	categories *budget.MockCategoryChecker
}

func newService(t *testing.T) (*budget.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:       budget.NewMockRepository(ctrl),
		wtx:        budget.NewMockWriteTx(ctrl),
		categories: budget.NewMockCategoryChecker(ctrl),
	}

	return budget.NewService(m.repo, m.categories), m
}

func TestService_HasOverlap(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()
	janID := uuid.New()
	existing := []budget.Existing{
		{ID: janID, Window: budget.Window{Start: day(2024, 1, 1), End: day(2024, 1, 31)}},
	}

	tests := []struct {
		name      string
		window    budget.Window
		excludeID *uuid.UUID
		want      bool
	}{
		{name: "Overlapping", window: budget.Window{Start: day(2024, 1, 15), End: day(2024, 2, 15)}, want: true},
		{name: "Following", window: budget.Window{Start: day(2024, 2, 1), End: day(2024, 2, 28)}, want: false},
		{name: "ExcludedSelf", window: budget.Window{Start: day(2024, 1, 5), End: day(2024, 1, 20)}, excludeID: &janID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			m.repo.EXPECT().Windows(gomock.Any(), userID, categoryID).Return(existing, nil)

			got, err := svc.HasOverlap(context.Background(), userID, categoryID, tt.window, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Create(t *testing.T) {
	userID, categoryID := uuid.New(), uuid.New()
	jan := []budget.Existing{
		{ID: uuid.New(), Window: budget.Window{Start: day(2024, 1, 1), End: day(2024, 1, 31)}},
	}

	type testCase struct {
		name      string
		params    budget.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: budget.CreateParams{
				CategoryID: categoryID,
				StartDate:  day(2024, 2, 1),
				EndDate:    day(2024, 2, 28),
				Amount:     dec("300"),
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
				m.repo.EXPECT().BeginWrite(gomock.Any(), userID, categoryID).Return(m.wtx, nil)
				m.wtx.EXPECT().Windows(gomock.Any(), userID, categoryID).Return(jan, nil)
				m.wtx.EXPECT().CreateBudget(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						assert.Equal(t, budget.PeriodMonthly, b.Period)
						b.ID = uuid.New()
						return nil
					})
				m.wtx.EXPECT().Commit().Return(nil)
				m.wtx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "Overlap",
			params: budget.CreateParams{
				CategoryID: categoryID,
				Period:     budget.PeriodMonthly,
				StartDate:  day(2024, 1, 15),
				EndDate:    day(2024, 2, 15),
				Amount:     dec("300"),
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).Return(nil)
				m.repo.EXPECT().BeginWrite(gomock.Any(), userID, categoryID).Return(m.wtx, nil)
				m.wtx.EXPECT().Windows(gomock.Any(), userID, categoryID).Return(jan, nil)
				m.wtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: budget.ErrOverlap,
		},
		{
			name: "EndNotAfterStart",
			params: budget.CreateParams{
				CategoryID: categoryID,
				StartDate:  day(2024, 3, 1),
				EndDate:    day(2024, 3, 1),
				Amount:     dec("10"),
			},
			setupMock: func(mocks) {},
			wantErr:   budget.ErrInvalidWindow,
		},
		{
			name: "UnknownPeriod",
			params: budget.CreateParams{
				CategoryID: categoryID,
				Period:     "fortnightly",
				StartDate:  day(2024, 3, 1),
				EndDate:    day(2024, 3, 14),
			},
			setupMock: func(mocks) {},
			wantErr:   budget.ErrInvalidPeriod,
		},
		{
			name: "NegativeAmount",
			params: budget.CreateParams{
				CategoryID: categoryID,
				StartDate:  day(2024, 3, 1),
				EndDate:    day(2024, 3, 14),
				Amount:     dec("-1"),
			},
			setupMock: func(mocks) {},
			wantErr:   budget.ErrNegative,
		},
		{
			name: "ForeignCategory",
			params: budget.CreateParams{
				CategoryID: categoryID,
				StartDate:  day(2024, 3, 1),
				EndDate:    day(2024, 3, 14),
			},
			setupMock: func(m mocks) {
				m.categories.EXPECT().EnsureOwned(gomock.Any(), userID, categoryID).
					Return(apperr.Invalid("category_id", "The selected category id is invalid."))
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Create(context.Background(), userID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Update_ExcludesItself(t *testing.T) {
	svc, m := newService(t)

	userID, categoryID, id := uuid.New(), uuid.New(), uuid.New()
	stored := &budget.Budget{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		Period:     budget.PeriodMonthly,
		StartDate:  day(2024, 1, 1),
		EndDate:    day(2024, 1, 31),
		Amount:     dec("100"),
	}

	m.repo.EXPECT().GetBudget(gomock.Any(), id).Return(stored, nil)
	m.repo.EXPECT().BeginWrite(gomock.Any(), userID, categoryID).Return(m.wtx, nil)
	m.wtx.EXPECT().Windows(gomock.Any(), userID, categoryID).Return([]budget.Existing{
		{ID: id, Window: budget.Window{Start: day(2024, 1, 1), End: day(2024, 1, 31)}},
	}, nil)
	m.wtx.EXPECT().UpdateBudget(gomock.Any(), gomock.Any()).Return(nil)
	m.wtx.EXPECT().Commit().Return(nil)
	m.wtx.EXPECT().Rollback().Return(nil)

	amount := dec("150")
	end := day(2024, 2, 5)

	got, err := svc.Update(context.Background(), userID, id, budget.UpdateParams{Amount: &amount, EndDate: &end})
	require.NoError(t, err)
	assert.True(t, amount.Equal(got.Amount))
	assert.Equal(t, end, got.EndDate)
}

func TestService_Update_Overlap(t *testing.T) {
	svc, m := newService(t)

	userID, categoryID, id := uuid.New(), uuid.New(), uuid.New()

	m.repo.EXPECT().GetBudget(gomock.Any(), id).Return(&budget.Budget{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		Period:     budget.PeriodMonthly,
		StartDate:  day(2024, 1, 1),
		EndDate:    day(2024, 1, 31),
	}, nil)
	m.repo.EXPECT().BeginWrite(gomock.Any(), userID, categoryID).Return(m.wtx, nil)
	m.wtx.EXPECT().Windows(gomock.Any(), userID, categoryID).Return([]budget.Existing{
		{ID: id, Window: budget.Window{Start: day(2024, 1, 1), End: day(2024, 1, 31)}},
		{ID: uuid.New(), Window: budget.Window{Start: day(2024, 2, 1), End: day(2024, 2, 29)}},
	}, nil)
	m.wtx.EXPECT().Rollback().Return(nil)

	end := day(2024, 2, 10)
	_, err := svc.Update(context.Background(), userID, id, budget.UpdateParams{EndDate: &end})
	assert.ErrorIs(t, err, budget.ErrOverlap)
	assert.ErrorIs(t, err, apperr.ErrRule)
}

func TestService_Show(t *testing.T) {
	svc, m := newService(t)

	userID, categoryID, id := uuid.New(), uuid.New(), uuid.New()
	b := &budget.Budget{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		StartDate:  day(2024, 1, 1),
		EndDate:    day(2024, 1, 31),
		Amount:     dec("500"),
	}

	m.repo.EXPECT().GetBudget(gomock.Any(), id).Return(b, nil)
	m.repo.EXPECT().DailySpending(gomock.Any(), userID, categoryID, b.Window()).Return([]budget.DailySpend{
		{Date: day(2024, 1, 3), Total: dec("100")},
		{Date: day(2024, 1, 9), Total: dec("250")},
	}, nil)

	got, err := svc.Show(context.Background(), userID, id)
	require.NoError(t, err)
	assert.True(t, dec("350").Equal(got.Progress.Spent))
	assert.True(t, dec("150").Equal(got.Progress.Remaining))
	assert.True(t, dec("70").Equal(got.Progress.Percent))
}

func TestService_Show_OtherUser(t *testing.T) {
	svc, m := newService(t)

	id := uuid.New()
	m.repo.EXPECT().GetBudget(gomock.Any(), id).Return(&budget.Budget{ID: id, UserID: uuid.New()}, nil)

	_, err := svc.Show(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestService_List(t *testing.T) {
	svc, m := newService(t)

	userID := uuid.New()
	today := day(2024, 1, 10)
	b := &budget.Budget{ID: uuid.New(), UserID: userID, StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 31), Amount: dec("10")}

	want := budget.ListFilter{UserID: userID, ActiveOn: &today, Limit: 10, Offset: 0}
	m.repo.EXPECT().ListBudgets(gomock.Any(), want).Return([]*budget.Budget{b}, nil)
	m.repo.EXPECT().CountBudgets(gomock.Any(), want).Return(1, nil)
	m.repo.EXPECT().DailySpending(gomock.Any(), userID, b.CategoryID, b.Window()).Return(nil, nil)

	got, err := svc.List(context.Background(), userID, budget.ListFilter{ActiveOn: &today}, paging.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.True(t, got.Data[0].Progress.Remaining.Equal(dec("10")))
}
