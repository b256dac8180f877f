package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rmoura/orcamento/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	transactionsSheet = "Transações"
	summarySheet      = "Resumo"
)

// WriteCSV writes the snapshot in the six-column export shape. This is the
// format Read consumes, so export-then-read round-trips as long as the
// fields stay free of the delimiter itself; Read splits lines naively to
// cope with dirty bank files, so a description containing a comma survives
// only in the spreadsheet export.
func WriteCSV(w io.Writer, snap domain.LedgerSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Data", "Descrição", "Categoria", "Valor", "Tipo", "Mês"}); err != nil {
		return err
	}
	for _, tx := range snap.Transactions {
		record := []string{tx.Date, tx.Description, tx.Category, tx.Amount.String(), string(tx.Type), tx.Month}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the snapshot as a workbook with a transactions sheet and
// a summary sheet. Only the logical records matter; no template styling.
func WriteXLSX(w io.Writer, snap domain.LedgerSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("ledger: renaming sheet: %w", err)
	}

	header := []interface{}{"Data", "Descrição", "Categoria", "Valor", "Tipo", "Mês"}
	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("ledger: writing header: %w", err)
	}

	for i, tx := range snap.Transactions {
		kind := "Despesa"
		if tx.Type == domain.Credit {
			kind = "Receita"
		}
		amount, _ := tx.Amount.Float64()
		row := []interface{}{tx.Date, tx.Description, tx.Category, amount, kind, tx.Month}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("ledger: writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("ledger: creating summary sheet: %w", err)
	}
	income, _ := snap.Summary.TotalIncome.Float64()
	expenses, _ := snap.Summary.TotalExpenses.Float64()
	balance, _ := snap.Summary.Balance.Float64()
	summaryRows := [][]interface{}{
		{"Métrica", "Valor"},
		{"Receitas Totais", income},
		{"Gastos Totais", expenses},
		{"Saldo", balance},
	}
	for i, row := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("ledger: writing summary row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("ledger: writing workbook: %w", err)
	}
	return nil
}
