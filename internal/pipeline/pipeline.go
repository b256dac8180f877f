// Package pipeline wires the full request flow: split uploads into
// statements and an optional existing ledger, extract raw transactions per
// file, categorize everything, then merge and rebuild the snapshot. Each
// request owns its state end to end; nothing survives between invocations.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rmoura/orcamento/internal/classify"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/extract"
	"github.com/rs/zerolog"
)

// Mode selects against-ledger merging or a fresh result set.
type Mode string

const (
	ModeNew    Mode = "new"
	ModeUpdate Mode = "update"
)

// Request is one processing request: statement files plus an optional
// previously exported ledger to merge against.
type Request struct {
	Files []extract.File
	Mode  Mode
}

// Stats surfaces what the best-effort pipeline silently discarded, so
// callers are not limited to log lines.
type Stats struct {
	FilesProcessed int `json:"filesProcessed"`
	FilesFailed    int `json:"filesFailed"`
	RowsDropped    int `json:"rowsDropped"`
	Duplicates     int `json:"duplicates"`
}

// Result is the output record handed to the caller/UI/export layer. When
// merging, Transactions holds only the newly added transactions (the caller
// already has the existing ones) while Months and Summary cover the full
// combined set.
type Result struct {
	Transactions []domain.Transaction `json:"transactions"`
	Months       []string             `json:"months"`
	Summary      domain.Summary       `json:"summary"`
	Stats        Stats                `json:"stats"`
}

// State is the shared state threaded through the pipeline steps.
type State struct {
	Req Request

	Statements []extract.File
	LedgerFile *extract.File

	Raw      []domain.RawTransaction
	Existing []domain.Transaction
	New      []domain.Transaction

	Result *Result
	Stats  Stats
}

// Step is a single stage of the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// Pipeline executes steps in order, failing fast on the first error.
type Pipeline struct {
	steps []Step
	log   zerolog.Logger
}

// Options carry the collaborators each step needs.
type Options struct {
	Extractor          *extract.Extractor
	Engine             *classify.Engine
	LedgerCSVThreshold int64 // CSV above this size is treated as a ledger
	Log                zerolog.Logger
}

// DefaultLedgerCSVThreshold distinguishes a statement CSV from an exported
// ledger CSV by size when nothing else does.
const DefaultLedgerCSVThreshold = 50000

// New builds the standard five-step processing pipeline.
func New(opts Options) *Pipeline {
	if opts.LedgerCSVThreshold <= 0 {
		opts.LedgerCSVThreshold = DefaultLedgerCSVThreshold
	}
	return &Pipeline{
		log: opts.Log,
		steps: []Step{
			&classifyFilesStep{csvThreshold: opts.LedgerCSVThreshold, log: opts.Log},
			&extractStep{extractor: opts.Extractor, log: opts.Log},
			&readLedgerStep{log: opts.Log},
			&categorizeStep{engine: opts.Engine},
			&mergeStep{log: opts.Log},
		},
	}
}

// Process runs one request through all steps and returns the final result.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	state := &State{Req: req}
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return nil, fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
	}
	return state.Result, nil
}
