// Package handlers implements the HTTP endpoints: statement processing,
// spreadsheet export and a health probe.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rmoura/orcamento/internal/api/middleware"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/errdefs"
	"github.com/rmoura/orcamento/internal/extract"
	"github.com/rmoura/orcamento/internal/ledger"
	"github.com/rmoura/orcamento/internal/merge"
	"github.com/rmoura/orcamento/internal/pipeline"
	"github.com/rs/zerolog"
)

// StatementsHandler handles statement ingestion and export endpoints.
type StatementsHandler struct {
	pipe         *pipeline.Pipeline
	maxFileBytes int64
	log          zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(pipe *pipeline.Pipeline, maxFileBytes int64, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		pipe:         pipe,
		maxFileBytes: maxFileBytes,
		log:          log,
	}
}

// ProcessStatement handles POST /api/process-statement.
//
// The request is multipart form data: one or more files under "statement",
// an optional exported ledger under "existing", and a "type" field of "new"
// or "update".
func (h *StatementsHandler) ProcessStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFileBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Requisição multipart inválida")
		return
	}
	defer r.MultipartForm.RemoveAll()

	mode := pipeline.ModeNew
	if strings.EqualFold(r.FormValue("type"), string(pipeline.ModeUpdate)) {
		mode = pipeline.ModeUpdate
	}

	var files []extract.File
	for _, field := range []string{"statement", "existing"} {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := h.readUpload(fh)
			if err != nil {
				h.log.Warn().Err(err).Str("file", fh.Filename).Msg("Upload rejected")
				middleware.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			files = append(files, f)
		}
	}

	result, err := h.pipe.Process(r.Context(), pipeline.Request{Files: files, Mode: mode})
	if err != nil {
		h.log.Error().Err(err).Str("mode", string(mode)).Msg("Statement processing failed")
		middleware.WriteError(w, statusFor(err), err.Error())
		return
	}

	if result.Transactions == nil {
		result.Transactions = []domain.Transaction{}
	}
	if result.Months == nil {
		result.Months = []string{}
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

func (h *StatementsHandler) readUpload(fh *multipart.FileHeader) (extract.File, error) {
	if fh.Size > h.maxFileBytes {
		return extract.File{}, errdefs.Validation("arquivo %s excede o limite de %d bytes", fh.Filename, h.maxFileBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return extract.File{}, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxFileBytes+1))
	if err != nil {
		return extract.File{}, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > h.maxFileBytes {
		return extract.File{}, errdefs.Validation("arquivo %s excede o limite de %d bytes", fh.Filename, h.maxFileBytes)
	}
	return extract.File{
		Name: fh.Filename,
		MIME: fh.Header.Get("Content-Type"),
		Data: data,
	}, nil
}

// exportRequest is the body of POST /api/export-spreadsheet.
type exportRequest struct {
	Transactions []domain.Transaction `json:"transactions"`
	Format       string               `json:"format"`
	Updated      bool                 `json:"updated"`
}

// ExportSpreadsheet handles POST /api/export-spreadsheet. It rebuilds the
// snapshot from the posted transactions and streams it back as a CSV or
// XLSX download.
func (h *StatementsHandler) ExportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if len(req.Transactions) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Nenhuma transação para exportar")
		return
	}

	snap := merge.Snapshot(req.Transactions)

	name := "orcamento"
	if req.Updated {
		name = "orcamento-atualizado"
	}

	switch strings.ToLower(req.Format) {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		if err := ledger.WriteCSV(w, snap); err != nil {
			h.log.Error().Err(err).Msg("CSV export failed")
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		if err := ledger.WriteXLSX(w, snap); err != nil {
			h.log.Error().Err(err).Msg("XLSX export failed")
		}
	default:
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Formato de exportação desconhecido: %s", req.Format))
	}
}

// statusFor maps pipeline errors to HTTP status codes. Caller mistakes get
// a 400; everything else is a 500.
func statusFor(err error) int {
	if errdefs.IsValidation(err) || errdefs.IsParse(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// HealthHandler reports service liveness and AI availability.
type HealthHandler struct {
	geminiConfigured bool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(geminiConfigured bool) *HealthHandler {
	return &HealthHandler{geminiConfigured: geminiConfigured}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"gemini_configured": h.geminiConfigured,
	})
}
