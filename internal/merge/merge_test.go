package merge

import (
	"testing"

	"github.com/rmoura/orcamento/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, desc, amount, month string) domain.Transaction {
	a := decimal.RequireFromString(amount)
	return domain.Transaction{
		ID:          domain.TransactionID(date, desc, a),
		Date:        date,
		Description: desc,
		Amount:      a,
		Category:    "Outros Gastos: Outros",
		Type:        domain.TypeOf(a),
		Month:       month,
		Confidence:  1.0,
	}
}

func TestMerge(t *testing.T) {
	existing := []domain.Transaction{
		tx("05/03/2024", "SALARIO EMPRESA", "3000", "MAR"),
		tx("06/03/2024", "SUPERMERCADO ABC", "-150.00", "MAR"),
	}
	incoming := []domain.Transaction{
		tx("06/03/2024", "SUPERMERCADO ABC", "-150.00", "MAR"), // duplicate
		tx("07/03/2024", "FARMACIA SAUDE", "-45.90", "MAR"),
	}

	added, duplicates := Merge(existing, incoming)

	require.Len(t, added, 1)
	assert.Equal(t, 1, duplicates)
	assert.Equal(t, "FARMACIA SAUDE", added[0].Description)
}

func TestMerge_AmountTolerance(t *testing.T) {
	existing := []domain.Transaction{tx("06/03/2024", "SUPERMERCADO ABC", "-150.00", "MAR")}

	within := []domain.Transaction{tx("06/03/2024", "SUPERMERCADO ABC", "-150.005", "MAR")}
	added, duplicates := Merge(existing, within)
	assert.Empty(t, added, "amount within 0.01 is a duplicate")
	assert.Equal(t, 1, duplicates)

	outside := []domain.Transaction{tx("06/03/2024", "SUPERMERCADO ABC", "-150.02", "MAR")}
	added, duplicates = Merge(existing, outside)
	assert.Len(t, added, 1, "amount beyond 0.01 is a new transaction")
	assert.Equal(t, 0, duplicates)
}

func TestMerge_RawStringComparison(t *testing.T) {
	existing := []domain.Transaction{tx("06/03/2024", "SUPERMERCADO ABC", "-150.00", "MAR")}

	// A reformatted date or description is not recognized as the same
	// transaction; the predicate is deliberately literal.
	incoming := []domain.Transaction{
		tx("6/3/2024", "SUPERMERCADO ABC", "-150.00", "MAR"),
		tx("06/03/2024", "Supermercado Abc", "-150.00", "MAR"),
	}
	added, duplicates := Merge(existing, incoming)
	assert.Len(t, added, 2)
	assert.Equal(t, 0, duplicates)
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []domain.Transaction{
		tx("05/03/2024", "SALARIO EMPRESA", "3000", "MAR"),
	}

	added, duplicates := Merge(existing, existing)
	assert.Empty(t, added)
	assert.Equal(t, 1, duplicates)
}

func TestSnapshot(t *testing.T) {
	txs := []domain.Transaction{
		tx("05/03/2024", "SALARIO EMPRESA", "3000", "MAR"),
		tx("06/03/2024", "SUPERMERCADO ABC", "-150.50", "MAR"),
		tx("10/04/2024", "FARMACIA SAUDE", "-49.50", "ABR"),
	}

	snap := Snapshot(txs)

	assert.Equal(t, []string{"ABR", "MAR"}, snap.Months)
	assert.True(t, snap.Summary.TotalIncome.Equal(decimal.RequireFromString("3000")))
	assert.True(t, snap.Summary.TotalExpenses.Equal(decimal.RequireFromString("200")))
	assert.True(t, snap.Summary.Balance.Equal(decimal.RequireFromString("2800")))
	assert.Len(t, snap.Transactions, 3)
}

func TestSnapshot_Empty(t *testing.T) {
	snap := Snapshot(nil)

	assert.Empty(t, snap.Months)
	assert.True(t, snap.Summary.Balance.IsZero())
}
