package ai

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Stub is a deterministic in-process collaborator with function fields, the
// same shape the pipeline tests use for mocking. Unset fields answer with a
// fixed low-signal suggestion or an empty transactions array.
type Stub struct {
	CategorizeFunc          func(ctx context.Context, description string, amount decimal.Decimal) (CategorySuggestion, error)
	ExtractTransactionsFunc func(ctx context.Context, mimeType string, data []byte) (gjson.Result, error)
}

func (s *Stub) Categorize(ctx context.Context, description string, amount decimal.Decimal) (CategorySuggestion, error) {
	if s.CategorizeFunc != nil {
		return s.CategorizeFunc(ctx, description, amount)
	}
	return CategorySuggestion{}, fmt.Errorf("ai stub: categorize not configured")
}

func (s *Stub) ExtractTransactions(ctx context.Context, mimeType string, data []byte) (gjson.Result, error) {
	if s.ExtractTransactionsFunc != nil {
		return s.ExtractTransactionsFunc(ctx, mimeType, data)
	}
	return gjson.Parse("[]"), nil
}
