// Package sniffer detects the shape of delimited bank statement text:
// which delimiter the bank used, whether there is a header row, and which
// column plays which role in each data row. Headers are unreliable across
// banks, so role assignment works per row from the cell contents.
package sniffer

import (
	"regexp"
	"strings"

	"github.com/rmoura/orcamento/internal/domain"
	"github.com/rmoura/orcamento/internal/normalize"
	"github.com/shopspring/decimal"
)

// Layout describes the detected file shape. HeaderRow is -1 when no header
// line was recognized in the first lines.
type Layout struct {
	Delimiter rune
	HeaderRow int
}

// statementHeaderKeywords flag a line as a header row in bank statements.
var statementHeaderKeywords = []string{
	"data", "desc", "hist", "valor", "quantia", "operacao", "tipo", "categoria",
}

// headerScanLines bounds how far down we look for a header row.
const headerScanLines = 5

// Detect sniffs delimiter and header position for statement text.
func Detect(text string) Layout {
	return DetectWithKeywords(text, statementHeaderKeywords)
}

// DetectWithKeywords is Detect with a caller-supplied header keyword set;
// the ledger reader uses it with keywords tuned to the export's own columns.
func DetectWithKeywords(text string, keywords []string) Layout {
	lines := splitLines(text)
	layout := Layout{Delimiter: ',', HeaderRow: -1}
	if len(lines) == 0 {
		return layout
	}

	// Most frequent of comma, semicolon, tab in the first line wins;
	// comma on ties.
	first := lines[0]
	commas := strings.Count(first, ",")
	semis := strings.Count(first, ";")
	tabs := strings.Count(first, "\t")
	if semis > commas && semis > tabs {
		layout.Delimiter = ';'
	} else if tabs > commas && tabs > semis {
		layout.Delimiter = '\t'
	}

	for i := 0; i < len(lines) && i < headerScanLines; i++ {
		cols := strings.Split(strings.ToLower(lines[i]), string(layout.Delimiter))
		for _, col := range cols {
			for _, kw := range keywords {
				if strings.Contains(col, kw) {
					layout.HeaderRow = i
					return layout
				}
			}
		}
	}
	return layout
}

// Rows returns the data rows following the header (or from the second line
// when no header was found, matching the reference best-effort behavior),
// split on the detected delimiter with cells trimmed and unquoted.
func Rows(text string, layout Layout) [][]string {
	lines := splitLines(text)
	start := 1
	if layout.HeaderRow >= 0 {
		start = layout.HeaderRow + 1
	}

	var rows [][]string
	for i := start; i < len(lines); i++ {
		cells := strings.Split(lines[i], string(layout.Delimiter))
		for j, c := range cells {
			c = strings.TrimSpace(c)
			c = strings.TrimPrefix(c, `"`)
			c = strings.TrimSuffix(c, `"`)
			cells[j] = c
		}
		rows = append(rows, cells)
	}
	return rows
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Row is one data row with columns resolved to their roles.
type Row struct {
	Date        string
	Description string
	Amount      decimal.Decimal
	TypeHint    domain.OperationType // explicit débito/crédito marker, if any
}

// roleRule picks one role's value out of a row. Rules run in declaration
// order; precedence between heuristics is this list, nothing else.
type roleRule struct {
	name  string
	apply func(cells []string, row *Row)
}

var roleRules = []roleRule{
	{name: "date", apply: pickDate},
	{name: "amount", apply: pickAmount},
	{name: "description", apply: pickDescription},
	{name: "type-hint", apply: pickTypeHint},
}

// MapRow assigns column roles for one data row. The second return is false
// when the row lacks a valid date or a non-zero amount; such rows are
// dropped silently, recall over precision.
func MapRow(cells []string) (Row, bool) {
	if len(cells) < 2 {
		return Row{}, false
	}

	var row Row
	for _, rule := range roleRules {
		rule.apply(cells, &row)
	}

	if row.Date == "" || row.Amount.IsZero() {
		return Row{}, false
	}

	// An explicit operation marker overrides the amount's own sign.
	switch {
	case row.TypeHint == domain.Debit && row.Amount.Sign() > 0:
		row.Amount = row.Amount.Neg()
	case row.TypeHint == domain.Credit && row.Amount.Sign() < 0:
		row.Amount = row.Amount.Abs()
	case row.TypeHint == "":
		row.TypeHint = domain.TypeOf(row.Amount)
	}
	return row, true
}

// pickDate takes the first of the first three columns matching a date
// pattern.
func pickDate(cells []string, row *Row) {
	limit := len(cells)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		if IsDate(cells[i]) {
			row.Date = cells[i]
			return
		}
	}
}

// pickAmount scans the last four columns from right to left and takes the
// first non-zero numeric value. Date cells also survive numeric cleaning,
// so they are excluded explicitly.
func pickAmount(cells []string, row *Row) {
	low := len(cells) - 4
	if low < 0 {
		low = 0
	}
	for i := len(cells) - 1; i >= low; i-- {
		if IsDate(cells[i]) {
			continue
		}
		if v, ok := normalize.ParseAmount(cells[i]); ok && !v.IsZero() {
			row.Amount = v
			return
		}
	}
}

// pickDescription takes the longest interior column that is neither a date
// nor a number, falling back to column 1.
func pickDescription(cells []string, row *Row) {
	longest := ""
	for i := 1; i < len(cells)-2; i++ {
		c := cells[i]
		if len(c) <= len(longest) || IsDate(c) {
			continue
		}
		if _, ok := normalize.ParseAmount(c); ok {
			continue
		}
		longest = c
	}
	if longest == "" && len(cells) > 1 {
		longest = cells[1]
	}
	if longest == "" {
		longest = "Transação"
	}
	row.Description = strings.TrimSpace(longest)
}

// pickTypeHint looks for an explicit débito/crédito column anywhere in the
// row.
func pickTypeHint(cells []string, row *Row) {
	for _, c := range cells {
		lower := strings.ToLower(c)
		switch {
		case strings.Contains(lower, "debito") || strings.Contains(lower, "débito") || strings.Contains(lower, "saida") || strings.Contains(lower, "saída"):
			row.TypeHint = domain.Debit
			return
		case strings.Contains(lower, "credito") || strings.Contains(lower, "crédito") || strings.Contains(lower, "entrada"):
			row.TypeHint = domain.Credit
			return
		}
	}
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
}

// IsDate reports whether s looks like a supported date literal.
func IsDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
