// Package ledger reads and writes the system's own export format: the
// six-column tabular shape {Data, Descrição, Categoria, Valor, Tipo, Mês},
// as CSV or as a spreadsheet. Ledger rows are ground truth: they were
// already reviewed, so every recovered transaction carries confidence 1.0.
package ledger

import (
	"bytes"
	"strings"

	"github.com/extrame/xls"
	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/errdefs"
	"github.com/rmoura/orcamento/internal/normalize"
	"github.com/rmoura/orcamento/internal/sniffer"
	"github.com/xuri/excelize/v2"
)

// ledgerHeaderKeywords is the header sniff keyword set restricted to the
// export's own column names.
var ledgerHeaderKeywords = []string{
	"data", "descriç", "descric", "valor", "categoria", "tipo", "mes", "mês", "month",
}

// maxSpreadsheetRows bounds how much of a legacy XLS workbook is read.
const maxSpreadsheetRows = 65535

// Read parses a previously exported ledger back into transactions. It
// returns a ParseError when zero transactions could be recovered: unlike
// per-row drops during extraction, a ledger that degenerates to nothing is
// a user-facing failure because the merge has no usable baseline.
func Read(name, mime string, data []byte) ([]domain.Transaction, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errdefs.Parse("ledger %s is empty", name)
	}

	var rows [][]string
	var err error
	switch {
	case hasExt(name, ".xlsx") || strings.Contains(mime, "spreadsheet"):
		rows, err = xlsxRows(data)
	case hasExt(name, ".xls") || strings.Contains(mime, "excel"):
		rows, err = xlsRows(data)
	default:
		rows = csvRows(string(data))
	}
	if err != nil {
		return nil, errdefs.Parse("ledger %s: %v", name, err)
	}

	txs := rowsToTransactions(rows)
	if len(txs) == 0 {
		return nil, errdefs.Parse("no valid transactions recovered from ledger %s", name)
	}
	return txs, nil
}

func csvRows(text string) [][]string {
	layout := sniffer.DetectWithKeywords(text, ledgerHeaderKeywords)
	return sniffer.Rows(text, layout)
}

func xlsxRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errdefs.Parse("workbook has no sheets")
	}

	// Prefer the transactions sheet when present, otherwise the first one.
	sheet := sheets[0]
	for _, name := range sheets {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "transa") || strings.Contains(lower, "moviment") {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return dropHeader(rows), nil
}

func xlsRows(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	return dropHeader(wb.ReadAllCells(maxSpreadsheetRows)), nil
}

// dropHeader applies the same header sniff used for delimited text to
// already-split spreadsheet rows.
func dropHeader(rows [][]string) [][]string {
	for i := 0; i < len(rows) && i < 5; i++ {
		for _, cell := range rows[i] {
			lower := strings.ToLower(cell)
			for _, kw := range ledgerHeaderKeywords {
				if strings.Contains(lower, kw) {
					return rows[i+1:]
				}
			}
		}
	}
	if len(rows) > 0 {
		return rows[1:]
	}
	return nil
}

func rowsToTransactions(rows [][]string) []domain.Transaction {
	var txs []domain.Transaction
	for _, cells := range rows {
		tx, ok := rowToTransaction(cells)
		if !ok {
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

// rowToTransaction maps one export row. Every row must independently carry a
// date, a description and a non-zero amount, or it is dropped.
func rowToTransaction(cells []string) (domain.Transaction, bool) {
	if len(cells) < 4 {
		return domain.Transaction{}, false
	}

	date := strings.TrimSpace(cells[0])
	desc := strings.TrimSpace(cells[1])
	category := strings.TrimSpace(cells[2])
	amount, ok := normalize.ParseAmount(cells[3])
	if date == "" || desc == "" || !ok || amount.IsZero() {
		return domain.Transaction{}, false
	}
	if category == "" {
		category = "Outros Gastos: Outros"
	}

	// The Tipo column overrides the stored sign so type and sign stay
	// consistent even for exports that keep absolute values.
	if len(cells) > 4 {
		switch parseType(cells[4]) {
		case domain.Debit:
			amount = amount.Abs().Neg()
		case domain.Credit:
			amount = amount.Abs()
		}
	}

	month := ""
	if len(cells) > 5 {
		month = strings.TrimSpace(cells[5])
	}
	if month == "" {
		month = normalize.MonthOf(date)
	}

	return domain.Transaction{
		ID:          domain.TransactionID(date, desc, amount),
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    category,
		Type:        domain.TypeOf(amount),
		Month:       month,
		Confidence:  1.0, // ledgered data is already reviewed
	}, true
}

func parseType(cell string) domain.OperationType {
	lower := strings.ToLower(strings.TrimSpace(cell))
	switch {
	case strings.Contains(lower, "credit") || strings.Contains(lower, "receita"):
		return domain.Credit
	case strings.Contains(lower, "debit") || strings.Contains(lower, "despesa"):
		return domain.Debit
	}
	return ""
}

func hasExt(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), ext)
}
