package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Lister returns every transaction of a user matching a filter.
type Lister interface {
	ListAll(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service exports a user's transactions over a date range.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

var header = []string{"date", "type", "amount", "category", "description"}

// Collect returns the user's transactions dated within [start, end], oldest first.
func (s *Service) Collect(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*transaction.Transaction, error) {
	if start.After(end) {
		return nil, transaction.ErrInvalidRange
	}

	txs, err := s.transactions.ListAll(ctx, userID, transaction.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	// Listings are newest first.
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	return txs, nil
}

// WriteCSV writes txs with a header row. Amounts are unsigned; the type
// column carries the direction.
func WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range txs {
		record := []string{
			t.Date.Format(time.DateOnly),
			string(t.Type),
			t.Amount.StringFixed(2),
			t.CategoryName,
			t.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Digest renders one line per transaction, suitable for an email body.
func Digest(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, t := range txs {
		sign := "-"
		if t.Type == transaction.TypeIncome {
			sign = "+"
		}

		desc := t.Description
		if desc == "" {
			desc = "(no description)"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s € | %s\n",
			t.Date.Format(time.DateOnly), desc, sign, t.Amount.StringFixed(2), t.CategoryName)
	}

	return sb.String()
}
