// Package ai models the external language-model collaborator behind two
// narrow capabilities: categorizing one transaction and extracting
// transactions from unstructured statement content. Both are interfaces so
// the deterministic offline paths and the tests never touch the network.
package ai

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// CategorySuggestion is one classifier answer.
type CategorySuggestion struct {
	Category   string  // "Grupo: Item"
	Confidence float64 // [0,1]
}

// Categorizer assigns a category to a single transaction.
type Categorizer interface {
	Categorize(ctx context.Context, description string, amount decimal.Decimal) (CategorySuggestion, error)
}

// Extractor pulls raw transactions out of unstructured statement content
// (PDF bytes, free-text dumps). It returns the "transactions" JSON array
// scraped from the model response; element validation is the caller's job.
type Extractor interface {
	ExtractTransactions(ctx context.Context, mimeType string, data []byte) (gjson.Result, error)
}
