package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		amount string
		want   OperationType
	}{
		{"3000", Credit},
		{"0", Credit},
		{"-150.50", Debit},
	}
	for _, tt := range tests {
		if got := TypeOf(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("TypeOf(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestTransactionID(t *testing.T) {
	amount := decimal.RequireFromString("-150.5")
	id := TransactionID("06/03/2024", "SUPERMERCADO ABC", amount)

	if id != "06032024SUPERMERCADOABC1505" {
		t.Errorf("unexpected id: %q", id)
	}
}

func TestTransactionID_Deterministic(t *testing.T) {
	a := TransactionID("05/03/2024", "PIX JOÃO", decimal.RequireFromString("250"))
	b := TransactionID("05/03/2024", "PIX JOÃO", decimal.RequireFromString("250"))
	if a != b {
		t.Errorf("same inputs must give the same id: %q vs %q", a, b)
	}

	c := TransactionID("05/03/2024", "PIX JOÃO", decimal.RequireFromString("251"))
	if a == c {
		t.Error("different amounts must give different ids")
	}
}

func TestTransactionID_StripsNonASCII(t *testing.T) {
	id := TransactionID("05/03/2024", "AÇAÍ & CIA", decimal.RequireFromString("-25"))
	for _, r := range id {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'
		isLower := r >= 'a' && r <= 'z'
		if !isDigit && !isUpper && !isLower {
			t.Fatalf("id contains non-alphanumeric rune %q: %s", r, id)
		}
	}
}
