package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type fakeLister struct {
	listFunc func(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

func (f *fakeLister) ListAll(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return f.listFunc(ctx, userID, filter)
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sample() []*transaction.Transaction {
	return []*transaction.Transaction{
		{ID: uuid.New(), Date: day(20), Type: transaction.TypeIncome, Amount: decimal.RequireFromString("1500"), CategoryName: "Salary", Description: "ACME"},
		{ID: uuid.New(), Date: day(3), Type: transaction.TypeExpense, Amount: decimal.RequireFromString("12.5"), CategoryName: "Food", Description: "Lunch, downtown"},
	}
}

func TestService_Collect(t *testing.T) {
	userID := uuid.New()

	lister := &fakeLister{
		listFunc: func(_ context.Context, gotUser uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			assert.Equal(t, userID, gotUser)
			require.NotNil(t, filter.StartDate)
			require.NotNil(t, filter.EndDate)
			assert.Equal(t, day(1), *filter.StartDate)
			assert.Equal(t, day(31), *filter.EndDate)

			return sample(), nil
		},
	}

	got, err := NewService(lister).Collect(context.Background(), userID, day(1), day(31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, day(3), got[0].Date, "oldest first")
}

func TestService_Collect_Errors(t *testing.T) {
	t.Run("InvertedRange", func(t *testing.T) {
		_, err := NewService(&fakeLister{}).Collect(context.Background(), uuid.New(), day(10), day(1))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("ListFails", func(t *testing.T) {
		lister := &fakeLister{
			listFunc: func(context.Context, uuid.UUID, transaction.ListFilter) ([]*transaction.Transaction, error) {
				return nil, errors.New("db down")
			},
		}

		_, err := NewService(lister).Collect(context.Background(), uuid.New(), day(1), day(2))
		assert.ErrorContains(t, err, "db down")
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	want := "date,type,amount,category,description\n" +
		"2024-01-20,income,1500.00,Salary,ACME\n" +
		"2024-01-03,expense,12.50,Food,\"Lunch, downtown\"\n"
	assert.Equal(t, want, buf.String())
}

func TestDigest(t *testing.T) {
	txs := sample()
	txs[0].Description = ""

	want := "* 2024-01-20 | (no description) | +1500.00 € | Salary\n" +
		"* 2024-01-03 | Lunch, downtown | -12.50 € | Food\n"
	assert.Equal(t, want, Digest(txs))
}
