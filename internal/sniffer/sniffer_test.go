package sniffer

import (
	"testing"

	"github.com/rmoura/orcamento/internal/domain"
	"github.com/shopspring/decimal"
)

const sampleStatement = "Data;Descrição;Valor\n" +
	"05/03/2024;SALARIO EMPRESA;3000,00\n" +
	"06/03/2024;SUPERMERCADO ABC;-150,00\n"

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		delimiter rune
		headerRow int
	}{
		{"semicolon with header", sampleStatement, ';', 0},
		{"comma with header", "Data,Descricao,Valor\n05/03/2024,PIX,-10,00\n", ',', 0},
		{"tab delimited", "Data\tHistorico\tValor\n05/03/2024\tPIX\t-10,00\n", '\t', 0},
		{"no header", "05/03/2024;PIX RECEBIDO;100,00\n06/03/2024;PADARIA;-12,00\n", ';', -1},
		{"empty", "", ',', -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := Detect(tt.text)
			if layout.Delimiter != tt.delimiter {
				t.Errorf("delimiter = %q, want %q", layout.Delimiter, tt.delimiter)
			}
			if layout.HeaderRow != tt.headerRow {
				t.Errorf("headerRow = %d, want %d", layout.HeaderRow, tt.headerRow)
			}
		})
	}
}

func TestDetect_BankPreambleHeader(t *testing.T) {
	text := "Banco Exemplo S.A.\nExtrato da conta 1234-5\nData;Histórico;Valor\n05/03/2024;PIX;-10,00\n"
	layout := Detect(text)
	if layout.HeaderRow != 2 {
		t.Errorf("headerRow = %d, want 2", layout.HeaderRow)
	}
}

func TestRows(t *testing.T) {
	layout := Detect(sampleStatement)
	rows := Rows(sampleStatement, layout)

	if len(rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(rows))
	}
	if rows[0][1] != "SALARIO EMPRESA" {
		t.Errorf("unexpected cell: %q", rows[0][1])
	}
}

func TestRows_NoHeaderStillSkipsFirstLine(t *testing.T) {
	// Without a recognized header the first line is skipped anyway,
	// mirroring the reference extractor. A headerless statement therefore
	// loses its first transaction; the header keyword list is what keeps
	// this rare.
	text := "05/03/2024;PIX RECEBIDO;100,00\n06/03/2024;PADARIA;-12,00\n"
	layout := Detect(text)
	if layout.HeaderRow != -1 {
		t.Fatalf("headerRow = %d, want -1", layout.HeaderRow)
	}

	rows := Rows(text, layout)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][1] != "PADARIA" {
		t.Errorf("unexpected surviving row: %v", rows[0])
	}
}

func TestRows_Unquoting(t *testing.T) {
	text := "Data,Descricao,Valor\n\"05/03/2024\",\"PADARIA DO ZE\",\"-12,00\"\n"
	rows := Rows(text, Detect(text))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0] != "05/03/2024" {
		t.Errorf("quotes not stripped: %q", rows[0][0])
	}
}

func TestMapRow(t *testing.T) {
	tests := []struct {
		name   string
		cells  []string
		ok     bool
		date   string
		desc   string
		amount string
		kind   domain.OperationType
	}{
		{
			name:  "credit row",
			cells: []string{"05/03/2024", "SALARIO EMPRESA", "3000,00"},
			ok:    true, date: "05/03/2024", desc: "SALARIO EMPRESA", amount: "3000", kind: domain.Credit,
		},
		{
			name:  "debit row",
			cells: []string{"06/03/2024", "SUPERMERCADO ABC", "-150,00"},
			ok:    true, date: "06/03/2024", desc: "SUPERMERCADO ABC", amount: "-150", kind: domain.Debit,
		},
		{
			name:  "debit marker flips positive amount",
			cells: []string{"06/03/2024", "SUPERMERCADO ABC", "Débito", "150,00"},
			ok:    true, date: "06/03/2024", desc: "SUPERMERCADO ABC", amount: "-150", kind: domain.Debit,
		},
		{
			name:  "credit marker normalizes negative amount",
			cells: []string{"06/03/2024", "ESTORNO COMPRA", "Crédito", "-150,00"},
			ok:    true, date: "06/03/2024", desc: "ESTORNO COMPRA", amount: "150", kind: domain.Credit,
		},
		{
			name:  "no date dropped",
			cells: []string{"saldo anterior", "SUPERMERCADO ABC", "-150,00"},
			ok:    false,
		},
		{
			name:  "zero amount dropped",
			cells: []string{"06/03/2024", "SALDO DO DIA", "0,00"},
			ok:    false,
		},
		{
			name:  "too few cells dropped",
			cells: []string{"06/03/2024"},
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := MapRow(tt.cells)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if row.Date != tt.date {
				t.Errorf("date = %q, want %q", row.Date, tt.date)
			}
			if row.Description != tt.desc {
				t.Errorf("description = %q, want %q", row.Description, tt.desc)
			}
			if want := decimal.RequireFromString(tt.amount); !row.Amount.Equal(want) {
				t.Errorf("amount = %s, want %s", row.Amount, want)
			}
			if row.TypeHint != tt.kind {
				t.Errorf("type = %q, want %q", row.TypeHint, tt.kind)
			}
		})
	}
}

func TestMapRow_PicksLongestDescription(t *testing.T) {
	cells := []string{"05/03/2024", "PIX", "TRANSFERENCIA PIX RECEBIDA JOAO", "ref 123", "250,00"}
	row, ok := MapRow(cells)
	if !ok {
		t.Fatal("expected row to map")
	}
	if row.Description != "TRANSFERENCIA PIX RECEBIDA JOAO" {
		t.Errorf("description = %q", row.Description)
	}
}

func TestIsDate(t *testing.T) {
	valid := []string{"05/03/2024", "5/3/2024", "2024-03-05", "05-03-2024"}
	for _, s := range valid {
		if !IsDate(s) {
			t.Errorf("expected %q to be a date", s)
		}
	}
	invalid := []string{"", "saldo", "05/03", "2024/03/05/01", "150,00"}
	for _, s := range invalid {
		if IsDate(s) {
			t.Errorf("expected %q not to be a date", s)
		}
	}
}
