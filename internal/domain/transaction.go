package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// OperationType tells whether a transaction moves money in or out.
type OperationType string

const (
	Credit OperationType = "credit"
	Debit  OperationType = "debit"
)

// RawTransaction is what extraction produces before categorization.
// It only lives inside one extraction call and is never persisted.
type RawTransaction struct {
	Date        string          // normalized DD/MM/YYYY, or verbatim when unparseable
	Description string          // verbatim from the source statement
	Amount      decimal.Decimal // positive = credit, negative = debit
}

// Transaction is the canonical categorized record.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"` // "Grupo: Item"
	Type        OperationType   `json:"type"`
	Month       string          `json:"month"` // 3-letter code, e.g. "MAR"
	Confidence  float64         `json:"confidence"`
}

// Summary aggregates a transaction set.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// LedgerSnapshot is the derived view over a full transaction set. It is
// recomputed from scratch after every merge, never updated in place.
type LedgerSnapshot struct {
	Transactions []Transaction `json:"transactions"`
	Months       []string      `json:"months"`
	Summary      Summary       `json:"summary"`
}

// TypeOf derives the operation type from the sign of the amount.
func TypeOf(amount decimal.Decimal) OperationType {
	if amount.Sign() >= 0 {
		return Credit
	}
	return Debit
}

// TransactionID builds the deterministic ID for a transaction. Two
// transactions with the same date, description and amount get the same ID,
// which is what makes deduplication by overwrite work.
func TransactionID(date, description string, amount decimal.Decimal) string {
	joined := date + "-" + description + "-" + amount.String()
	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if (unicode.IsLetter(r) && r < 128) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
