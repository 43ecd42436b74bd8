package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/importer/charset"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Parser reads CGD bank CSV exports. The layout (conta, extrato, cartão) is
// picked by matching column headers against known profiles.
//
// Entries are returned without a category.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, cs, err := charset.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	slog.Debug("parsing CGD statement", "profile", profile.Name, "charset", cs)

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
}

type colIndex map[string]int

// detectProfile returns the first profile whose columns all appear in one row,
// with that row's column map and index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var out []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerIdx + i + 2 // 1-based line number

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, typ, ok := p.amount(cols, row)
		if !ok {
			continue
		}

		out = append(out, transaction.CreateParams{
			Type:        typ,
			Amount:      amount,
			Date:        date,
			Description: desc,
		})
	}

	return out, nil
}

// parseDate rejects empty and unparseable cells, which covers footer rows.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func (p *Profile) amount(cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return signedAmount(cellValue(row, cols[p.AmountCol]))
	case amountSplit:
		if d, ok := nonZero(cellValue(row, cols[p.DebitCol])); ok {
			return d.Abs(), transaction.TypeExpense, true
		}

		if d, ok := nonZero(cellValue(row, cols[p.CreditCol])); ok {
			return d.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

func signedAmount(s string) (decimal.Decimal, transaction.Type, bool) {
	d, ok := nonZero(s)
	if !ok {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Neg(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
