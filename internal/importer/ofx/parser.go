// Package ofx reads OFX/QFX bank and credit card statements.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser converts statement lines into uncategorized transaction params.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// normalize fixes formatting quirks some banks emit that ofxgo rejects.
func normalize(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)

	return openTagRe.ReplaceAllString(content, "$1>")
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ofx: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(normalize(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	var out []transaction.CreateParams

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}

		for _, tx := range stmt.BankTranList.Transactions {
			if params, ok := convert(tx); ok {
				out = append(out, params)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}

		for _, tx := range stmt.BankTranList.Transactions {
			if params, ok := convert(tx); ok {
				out = append(out, params)
			}
		}
	}

	slog.Debug("parsed OFX statement", "transactions", len(out),
		"bank_statements", len(resp.Bank), "cc_statements", len(resp.CreditCard))

	return out, nil
}

// convert maps a statement line; zero amounts are dropped.
func convert(tx ofxgo.Transaction) (transaction.CreateParams, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return transaction.CreateParams{}, false
	}

	typ := transaction.TypeIncome
	if amount.IsNegative() {
		typ = transaction.TypeExpense
		amount = amount.Neg()
	}

	posted := tx.DtPosted.Time
	y, m, d := posted.Date()

	return transaction.CreateParams{
		Type:        typ,
		Amount:      amount,
		Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Description: description(tx),
	}, true
}

func description(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" || isGeneric(name) {
		if memo := strings.TrimSpace(string(tx.Memo)); memo != "" {
			return memo
		}
	}

	return name
}

func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}

	return false
}
