package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmoura/orcamento/internal/ai"
	"github.com/rmoura/orcamento/internal/api/handlers"
	"github.com/rmoura/orcamento/internal/api/middleware"
	"github.com/rmoura/orcamento/internal/classify"
	"github.com/rmoura/orcamento/internal/config"
	"github.com/rmoura/orcamento/internal/extract"
	"github.com/rmoura/orcamento/internal/logger"
	"github.com/rmoura/orcamento/internal/pipeline"
	"github.com/rmoura/orcamento/internal/taxonomy"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		loaded, err := taxonomy.LoadFile(cfg.TaxonomyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.TaxonomyPath).Msg("Failed to load taxonomy file")
		}
		tax = loaded
		log.Info().Str("path", cfg.TaxonomyPath).Msg("Taxonomy loaded from file")
	}

	gemini := ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, tax)
	if !gemini.Configured() {
		log.Warn().Msg("GEMINI_API_KEY not set: PDF/TXT extraction disabled, categorization falls back to keywords")
	}

	var categorizer ai.Categorizer
	var extractorAI ai.Extractor
	if gemini.Configured() {
		categorizer = gemini
		extractorAI = gemini
	}

	engine := classify.NewEngine(categorizer, tax, cfg.CategorizeWorkers, logger.WithComponent(log, "classify"))
	extractor := extract.New(extractorAI, logger.WithComponent(log, "extract"))

	pipe := pipeline.New(pipeline.Options{
		Extractor:          extractor,
		Engine:             engine,
		LedgerCSVThreshold: cfg.LedgerCSVMinBytes,
		Log:                logger.WithComponent(log, "pipeline"),
	})

	statementsHandler := handlers.NewStatementsHandler(pipe, cfg.MaxFileBytes, log)
	healthHandler := handlers.NewHealthHandler(gemini.Configured())

	mux := http.NewServeMux()

	mux.HandleFunc("/api/process-statement", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.ProcessStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/export-spreadsheet", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.ExportSpreadsheet(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", healthHandler.Health)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
