// Package extract turns one statement file into raw transactions. Delimited
// text goes through the tabular sniffer; PDFs and free-text statements are
// delegated to the AI collaborator, whose structured answer is validated
// element by element before anything downstream sees it.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rmoura/orcamento/internal/ai"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/errdefs"
	"github.com/rmoura/orcamento/internal/normalize"
	"github.com/rmoura/orcamento/internal/sniffer"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// File is one uploaded statement.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Result carries the surviving transactions plus how many rows or elements
// were silently dropped, so callers can surface best-effort losses.
type Result struct {
	Transactions []domain.RawTransaction
	Dropped      int
}

// Extractor extracts raw transactions from statement files. The AI
// collaborator may be nil; unstructured content then fails with a
// ConfigurationError while delimited text keeps working offline.
type Extractor struct {
	ai  ai.Extractor
	log zerolog.Logger
}

func New(collaborator ai.Extractor, log zerolog.Logger) *Extractor {
	return &Extractor{ai: collaborator, log: log}
}

// Extract produces raw transactions from one file. A file that yields zero
// transactions returns an ExtractionError; unstructured input without an AI
// credential returns a ConfigurationError. Either way the failure stays
// scoped to this file.
func (e *Extractor) Extract(ctx context.Context, f File) (Result, error) {
	switch {
	case isPDF(f):
		return e.extractUnstructured(ctx, f, "application/pdf")
	case isCSV(f):
		return e.extractTabular(f)
	case isPlainText(f):
		// Free-text statements need the model; without a credential we
		// still try the text as a delimited table.
		if e.ai != nil {
			return e.extractUnstructured(ctx, f, "text/plain")
		}
		return e.extractTabular(f)
	default:
		return Result{}, &errdefs.ExtractionError{
			File: f.Name,
			Err:  errdefs.Validation("unsupported statement format %q", f.MIME),
		}
	}
}

func (e *Extractor) extractTabular(f File) (Result, error) {
	text := string(f.Data)
	layout := sniffer.Detect(text)

	var res Result
	for _, cells := range sniffer.Rows(text, layout) {
		row, ok := sniffer.MapRow(cells)
		if !ok {
			res.Dropped++
			continue
		}
		res.Transactions = append(res.Transactions, domain.RawTransaction{
			Date:        normalize.NormalizeDate(row.Date),
			Description: row.Description,
			Amount:      row.Amount,
		})
	}

	e.log.Debug().Str("file", f.Name).
		Int("rows", len(res.Transactions)).Int("dropped", res.Dropped).
		Msg("Tabular extraction finished")

	if len(res.Transactions) == 0 {
		return Result{}, &errdefs.ExtractionError{File: f.Name}
	}
	return res, nil
}

func (e *Extractor) extractUnstructured(ctx context.Context, f File, mimeType string) (Result, error) {
	if e.ai == nil {
		return Result{}, errdefs.Configuration(
			"file %s needs the AI extractor but no credential is configured", f.Name)
	}

	arr, err := e.ai.ExtractTransactions(ctx, mimeType, f.Data)
	if err != nil {
		return Result{}, &errdefs.ExtractionError{File: f.Name, Err: err}
	}

	var res Result
	arr.ForEach(func(_, el gjson.Result) bool {
		raw, ok := validateElement(el)
		if !ok {
			e.log.Warn().Str("file", f.Name).Str("element", el.Raw).
				Msg("Discarding invalid transaction from model output")
			res.Dropped++
			return true
		}
		res.Transactions = append(res.Transactions, raw)
		return true
	})

	e.log.Debug().Str("file", f.Name).
		Int("rows", len(res.Transactions)).Int("dropped", res.Dropped).
		Msg("AI extraction finished")

	if len(res.Transactions) == 0 {
		return Result{}, &errdefs.ExtractionError{File: f.Name}
	}
	return res, nil
}

// validateElement enforces the collaborator contract on one element:
// non-empty date and description, numeric amount. Invalid elements are
// discarded, never fatal.
func validateElement(el gjson.Result) (domain.RawTransaction, bool) {
	date := el.Get("date")
	desc := el.Get("description")
	amount := el.Get("amount")

	if date.Type != gjson.String || strings.TrimSpace(date.String()) == "" {
		return domain.RawTransaction{}, false
	}
	if desc.Type != gjson.String || strings.TrimSpace(desc.String()) == "" {
		return domain.RawTransaction{}, false
	}
	if amount.Type != gjson.Number {
		return domain.RawTransaction{}, false
	}

	return domain.RawTransaction{
		Date:        normalize.NormalizeDate(date.String()),
		Description: strings.TrimSpace(desc.String()),
		Amount:      decimal.NewFromFloat(amount.Float()),
	}, true
}

func isPDF(f File) bool {
	return f.MIME == "application/pdf" || hasExt(f.Name, ".pdf")
}

func isCSV(f File) bool {
	return f.MIME == "text/csv" || hasExt(f.Name, ".csv")
}

func isPlainText(f File) bool {
	return f.MIME == "text/plain" || hasExt(f.Name, ".txt")
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
