// Package merge reconciles newly categorized transactions against an
// existing ledger and rebuilds the monthly snapshot.
package merge

import (
	"sort"

	"github.com/rmoura/orcamento/internal/domain"
	"github.com/shopspring/decimal"
)

// amountTolerance is the duplicate predicate's amount window.
var amountTolerance = decimal.NewFromFloat(0.01)

// Merge appends the incoming transactions that are not already present in
// existing. A duplicate is an exact date string match, an exact description
// string match, and an amount within 0.01. The comparison is deliberately
// raw-string: simple and auditable, at the cost of missing reformatted
// duplicates. Duplicates are counted and discarded, not returned.
func Merge(existing, incoming []domain.Transaction) (added []domain.Transaction, duplicates int) {
	for _, tx := range incoming {
		if isDuplicate(existing, tx) {
			duplicates++
			continue
		}
		added = append(added, tx)
	}
	return added, duplicates
}

func isDuplicate(existing []domain.Transaction, tx domain.Transaction) bool {
	for _, e := range existing {
		if e.Date == tx.Date && e.Description == tx.Description &&
			e.Amount.Sub(tx.Amount).Abs().LessThan(amountTolerance) {
			return true
		}
	}
	return false
}

// Snapshot recomputes months and totals over the full transaction set from
// scratch. Incremental updates are never attempted; the aggregate invariant
// stays trivially true.
func Snapshot(txs []domain.Transaction) domain.LedgerSnapshot {
	monthsSeen := make(map[string]bool)
	income := decimal.Zero
	expenses := decimal.Zero

	for _, tx := range txs {
		monthsSeen[tx.Month] = true
		if tx.Type == domain.Credit {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Abs())
		}
	}

	months := make([]string, 0, len(monthsSeen))
	for m := range monthsSeen {
		months = append(months, m)
	}
	sort.Strings(months)

	return domain.LedgerSnapshot{
		Transactions: txs,
		Months:       months,
		Summary: domain.Summary{
			TotalIncome:   income,
			TotalExpenses: expenses,
			Balance:       income.Sub(expenses),
		},
	}
}
