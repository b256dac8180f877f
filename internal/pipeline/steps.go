package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/rmoura/orcamento/internal/classify"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/errdefs"
	"github.com/rmoura/orcamento/internal/extract"
	"github.com/rmoura/orcamento/internal/ledger"
	"github.com/rmoura/orcamento/internal/merge"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Step 1: classifyFilesStep splits the uploads into statement files and at
// most one existing ledger. A spreadsheet extension or MIME, or a CSV above
// the size threshold, marks a file as the ledger.
type classifyFilesStep struct {
	csvThreshold int64
	log          zerolog.Logger
}

func (s *classifyFilesStep) Execute(ctx context.Context, state *State) error {
	for _, f := range state.Req.Files {
		if s.isLedger(f) {
			if state.LedgerFile == nil {
				lf := f
				state.LedgerFile = &lf
				s.log.Info().Str("file", f.Name).Msg("Existing ledger identified")
			} else {
				s.log.Warn().Str("file", f.Name).Msg("Second ledger ignored")
			}
			continue
		}
		state.Statements = append(state.Statements, f)
	}

	if len(state.Statements) == 0 {
		return errdefs.Validation("at least one statement file is required")
	}
	return nil
}

func (s *classifyFilesStep) isLedger(f extract.File) bool {
	lower := strings.ToLower(f.Name)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return true
	}
	if strings.Contains(f.MIME, "spreadsheet") || strings.Contains(f.MIME, "excel") {
		return true
	}
	return strings.HasSuffix(lower, ".csv") && int64(len(f.Data)) > s.csvThreshold
}

// Step 2: extractStep runs extraction over all statement files. Files are
// independent, so they run concurrently; one file's failure is logged and
// skipped, never aborting its siblings. Only when zero files yield anything
// does the request fail.
type extractStep struct {
	extractor *extract.Extractor
	log       zerolog.Logger
}

func (s *extractStep) Execute(ctx context.Context, state *State) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, f := range state.Statements {
		g.Go(func() error {
			res, err := s.extractor.Extract(gctx, f)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				state.Stats.FilesFailed++
				s.log.Error().Err(err).Str("file", f.Name).Msg("Statement extraction failed, skipping file")
				return nil
			}
			state.Stats.FilesProcessed++
			state.Stats.RowsDropped += res.Dropped
			state.Raw = append(state.Raw, res.Transactions...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(state.Raw) == 0 {
		return errdefs.Validation("no transactions found in any of the %d statement file(s)", len(state.Statements))
	}
	s.log.Info().Int("transactions", len(state.Raw)).
		Int("files_ok", state.Stats.FilesProcessed).Int("files_failed", state.Stats.FilesFailed).
		Msg("Extraction finished")
	return nil
}

// Step 3: readLedgerStep loads the merge baseline when updating. A ledger
// that yields nothing surfaces a ParseError: merging against an unreadable
// baseline would silently re-add everything.
type readLedgerStep struct {
	log zerolog.Logger
}

func (s *readLedgerStep) Execute(ctx context.Context, state *State) error {
	if state.Req.Mode != ModeUpdate || state.LedgerFile == nil {
		return nil
	}
	txs, err := ledger.Read(state.LedgerFile.Name, state.LedgerFile.MIME, state.LedgerFile.Data)
	if err != nil {
		return err
	}
	state.Existing = txs
	s.log.Info().Int("transactions", len(txs)).Str("file", state.LedgerFile.Name).
		Msg("Existing ledger loaded")
	return nil
}

// Step 4: categorizeStep categorizes the full raw batch. It completes
// entirely before any merging or aggregation; a canceled request discards
// the partial work.
type categorizeStep struct {
	engine *classify.Engine
}

func (s *categorizeStep) Execute(ctx context.Context, state *State) error {
	txs, err := s.engine.CategorizeAll(ctx, state.Raw)
	if err != nil {
		return err
	}
	state.New = txs
	return nil
}

// Step 5: mergeStep deduplicates against the baseline and rebuilds the
// snapshot over the combined set from scratch.
type mergeStep struct {
	log zerolog.Logger
}

func (s *mergeStep) Execute(ctx context.Context, state *State) error {
	added := state.New
	if state.Req.Mode == ModeUpdate {
		var duplicates int
		added, duplicates = merge.Merge(state.Existing, state.New)
		state.Stats.Duplicates = duplicates
		s.log.Info().Int("added", len(added)).Int("duplicates", duplicates).
			Msg("Merge finished")
	}

	full := make([]domain.Transaction, 0, len(state.Existing)+len(added))
	full = append(full, state.Existing...)
	full = append(full, added...)
	snap := merge.Snapshot(full)

	state.Result = &Result{
		Transactions: added,
		Months:       snap.Months,
		Summary:      snap.Summary,
		Stats:        state.Stats,
	}
	return nil
}
