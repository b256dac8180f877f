package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmoura/orcamento/internal/ai"
	"github.com/rmoura/orcamento/internal/classify"
	"github.com/rmoura/orcamento/internal/config"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/extract"
	"github.com/rmoura/orcamento/internal/ledger"
	"github.com/rmoura/orcamento/internal/logger"
	"github.com/rmoura/orcamento/internal/merge"
	"github.com/rmoura/orcamento/internal/pipeline"
	"github.com/rmoura/orcamento/internal/taxonomy"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "process":
		runProcess(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Orçamento CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  process   Process statement files and print (or export) the result")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli process -h' for more information.")
}

func runProcess(log zerolog.Logger) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	mode := fs.String("mode", "new", "Processing mode: new or update")
	out := fs.String("out", "", "Export result to this path (.csv or .xlsx)")
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "At least one statement file is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg := config.Load()

	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		loaded, err := taxonomy.LoadFile(cfg.TaxonomyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.TaxonomyPath).Msg("Failed to load taxonomy file")
		}
		tax = loaded
	}

	gemini := ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, tax)
	var categorizer ai.Categorizer
	var extractorAI ai.Extractor
	if gemini.Configured() {
		categorizer = gemini
		extractorAI = gemini
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, running in offline mode (CSV only, keyword categorization)")
	}

	engine := classify.NewEngine(categorizer, tax, cfg.CategorizeWorkers, log)
	pipe := pipeline.New(pipeline.Options{
		Extractor:          extract.New(extractorAI, log),
		Engine:             engine,
		LedgerCSVThreshold: cfg.LedgerCSVMinBytes,
		Log:                log,
	})

	var files []extract.File
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read input file")
		}
		files = append(files, extract.File{
			Name: filepath.Base(path),
			MIME: mime.TypeByExtension(filepath.Ext(path)),
			Data: data,
		})
	}

	req := pipeline.Request{Files: files, Mode: pipeline.Mode(*mode)}
	result, err := pipe.Process(context.Background(), req)
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}

	printResult(result)

	if *out != "" {
		if err := writeExport(*out, result.Transactions); err != nil {
			log.Fatal().Err(err).Str("file", *out).Msg("Export failed")
		}
		fmt.Printf("\nExported to %s\n", *out)
	}
}

func printResult(result *pipeline.Result) {
	fmt.Printf("Transactions: %d (files ok %d, failed %d, rows dropped %d, duplicates %d)\n",
		len(result.Transactions),
		result.Stats.FilesProcessed, result.Stats.FilesFailed,
		result.Stats.RowsDropped, result.Stats.Duplicates)
	fmt.Printf("Months:       %s\n", strings.Join(result.Months, ", "))
	fmt.Printf("Income:       %s\n", result.Summary.TotalIncome.StringFixed(2))
	fmt.Printf("Expenses:     %s\n", result.Summary.TotalExpenses.StringFixed(2))
	fmt.Printf("Balance:      %s\n", result.Summary.Balance.StringFixed(2))

	for _, tx := range result.Transactions {
		fmt.Printf("  %s  %-40s  %10s  %s\n", tx.Date, tx.Description, tx.Amount.StringFixed(2), tx.Category)
	}
}

func writeExport(path string, txs []domain.Transaction) error {
	snap := merge.Snapshot(txs)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ledger.WriteXLSX(f, snap)
	case ".csv":
		return ledger.WriteCSV(f, snap)
	default:
		return fmt.Errorf("unsupported export format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}
