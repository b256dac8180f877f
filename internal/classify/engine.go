// Package classify assigns a budget category and a confidence score to each
// transaction. The AI classifier is the primary path; a deterministic
// keyword rule set is the mandatory offline fallback, so categorization
// never fails and never requires network access.
package classify

import (
	"context"

	"github.com/rmoura/orcamento/internal/ai"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/normalize"
	"github.com/rmoura/orcamento/internal/taxonomy"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers caps concurrent AI categorization calls per request.
const DefaultWorkers = 4

// Result is one categorization answer.
type Result struct {
	Category   string
	Confidence float64
}

// Engine is the categorization engine. ai may be nil, in which case every
// transaction takes the fallback path.
type Engine struct {
	ai      ai.Categorizer
	tax     *taxonomy.Taxonomy
	workers int
	log     zerolog.Logger
}

// NewEngine builds an engine over the given taxonomy. workers <= 0 selects
// DefaultWorkers.
func NewEngine(categorizer ai.Categorizer, tax *taxonomy.Taxonomy, workers int, log zerolog.Logger) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Engine{ai: categorizer, tax: tax, workers: workers, log: log}
}

// Categorize resolves one transaction's category. Any AI transport or parse
// failure, and any label outside the taxonomy, degrades to the keyword
// fallback; the call itself never fails.
func (e *Engine) Categorize(ctx context.Context, description string, amount decimal.Decimal) Result {
	if e.ai != nil {
		suggestion, err := e.ai.Categorize(ctx, description, amount)
		if err == nil && e.tax.ValidLabel(suggestion.Category) {
			return Result{Category: suggestion.Category, Confidence: suggestion.Confidence}
		}
		if err != nil {
			e.log.Warn().Err(err).Str("description", description).
				Msg("AI categorization failed, using keyword fallback")
		} else {
			e.log.Warn().Str("category", suggestion.Category).Str("description", description).
				Msg("AI returned label outside taxonomy, using keyword fallback")
		}
	}
	return e.fallback(description, amount)
}

// CategorizeAll categorizes a batch with bounded concurrency and builds the
// canonical transactions. If the context is canceled the partial results are
// discarded, never returned: dedup and aggregation only ever see a fully
// categorized set.
func (e *Engine) CategorizeAll(ctx context.Context, raws []domain.RawTransaction) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := e.Categorize(gctx, raw.Description, raw.Amount)
			out[i] = domain.Transaction{
				ID:          domain.TransactionID(raw.Date, raw.Description, raw.Amount),
				Date:        raw.Date,
				Description: raw.Description,
				Amount:      raw.Amount,
				Category:    res.Category,
				Type:        domain.TypeOf(raw.Amount),
				Month:       normalize.MonthOf(raw.Date),
				Confidence:  res.Confidence,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
