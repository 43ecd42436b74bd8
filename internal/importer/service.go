package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
	"github.com/MrJamesThe3rd/pennywise/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pennywise/internal/importer/ofx"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error)
}

type TransactionImporter interface {
	ImportBatch(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) (*transaction.ImportResult, error)
	CreateBatch(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Service struct {
	parsers      map[Format]Parser
	rules        Suggester
	transactions TransactionImporter
}

func NewService(rules Suggester, transactions TransactionImporter) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatCGD: cgd.NewParser(),
			FormatOFX: ofx.NewParser(),
		},
		rules:        rules,
		transactions: transactions,
	}
}

// Parse reads a statement without categorizing it.
func (s *Service) Parse(format Format, r io.Reader) ([]transaction.CreateParams, error) {
	p, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown statement format: %s", format)
	}

	return p.Parse(r)
}

// Categorize assigns each entry the category of the best matching rule, or
// fallback when none matches. Without a fallback an unmatched entry is a
// validation error.
func (s *Service) Categorize(ctx context.Context, userID uuid.UUID, entries []transaction.CreateParams, fallback *uuid.UUID) ([]transaction.CreateParams, error) {
	out := make([]transaction.CreateParams, len(entries))

	for i, e := range entries {
		categoryID, err := s.rules.Suggest(ctx, userID, e.Description)
		if err != nil {
			return nil, fmt.Errorf("suggesting category for %q: %w", e.Description, err)
		}

		switch {
		case categoryID != nil:
			e.CategoryID = *categoryID
		case fallback != nil:
			e.CategoryID = *fallback
		default:
			return nil, apperr.Invalid("category_id",
				fmt.Sprintf("No category rule matches %q; a default category_id is required.", e.Description))
		}

		out[i] = e
	}

	return out, nil
}

// Import parses, categorizes and stores a statement. Nothing is stored when any
// entry duplicates an existing transaction; the conflicts are returned instead.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, format Format, r io.Reader, fallback *uuid.UUID) (*transaction.ImportResult, error) {
	entries, err := s.Parse(format, r)
	if err != nil {
		return nil, apperr.Invalid("file", err.Error())
	}

	params, err := s.Categorize(ctx, userID, entries, fallback)
	if err != nil {
		return nil, err
	}

	return s.transactions.ImportBatch(ctx, userID, params)
}

// Confirm stores entries the caller accepted after reviewing conflicts.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	return s.transactions.CreateBatch(ctx, userID, params)
}
