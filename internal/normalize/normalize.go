// Package normalize parses the date and amount strings found in bank
// statements into canonical forms. Bank formats vary wildly, so every
// function here degrades softly instead of failing hard.
package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MonthCodes are the fixed 3-letter month labels used across the system.
var MonthCodes = [12]string{
	"JAN", "FEV", "MAR", "ABR", "MAI", "JUN",
	"JUL", "AGO", "SET", "OUT", "NOV", "DEZ",
}

// NormalizeDate converts DD/MM/YYYY, YYYY-MM-DD and DD-MM-YYYY inputs
// (zero-padding optional) into the canonical DD/MM/YYYY display form.
// Slash-separated dates are read day-first, the locale convention of the
// taxonomy. On total parse failure the lower-cased input is returned
// verbatim: callers treat an unparsed date as a soft failure.
func NormalizeDate(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.Contains(cleaned, "/") {
		if d, m, y, ok := splitDate(cleaned, "/"); ok {
			return pad2(d) + "/" + pad2(m) + "/" + y
		}
	} else if strings.Contains(cleaned, "-") {
		parts := strings.Split(cleaned, "-")
		if len(parts) == 3 && allNumeric(parts) {
			if len(parts[0]) == 4 {
				// YYYY-MM-DD
				return pad2(parts[2]) + "/" + pad2(parts[1]) + "/" + parts[0]
			}
			// DD-MM-YYYY
			return pad2(parts[0]) + "/" + pad2(parts[1]) + "/" + parts[2]
		}
	}

	return strings.ToLower(cleaned)
}

func splitDate(s, sep string) (day, month, year string, ok bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 || !allNumeric(parts) {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func allNumeric(parts []string) bool {
	for _, p := range parts {
		if p == "" {
			return false
		}
		if _, err := strconv.Atoi(p); err != nil {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ParseAmount extracts a signed decimal from a free-form amount string.
// It strips everything except digits, comma, dot and minus, then decides
// which separator is the decimal one: when both are present, the one that
// appears last with a trailing group of at most two digits is decimal and
// the other groups thousands, so "1.234,56" and "1,234.56" both read as
// 1234.56. A lone comma is decimal only when the trailing group has at most
// two digits, otherwise it is a thousands separator. The second return is
// false for empty or unparseable input; callers skip the record instead of
// propagating.
func ParseAmount(input string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, input)

	if cleaned == "" {
		return decimal.Zero, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		lastComma := strings.LastIndex(cleaned, ",")
		lastDot := strings.LastIndex(cleaned, ".")
		last := lastComma
		if lastDot > lastComma {
			last = lastDot
		}
		switch {
		case len(cleaned)-last-1 > 2:
			// Both separators group thousands ("1.234,567").
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		case lastComma > lastDot:
			// Brazilian: "1.234,56"
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		default:
			// US: "1,234.56"
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		groups := strings.Split(cleaned, ",")
		if len(groups[len(groups)-1]) <= 2 {
			cleaned = strings.Join(groups[:len(groups)-1], "") + "." + groups[len(groups)-1]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// MonthOf derives the 3-letter month code from a date string in any of the
// accepted formats. Falls back to "JAN" when the date cannot be read; the
// loss is documented and the caller has already accepted the date as soft.
func MonthOf(dateString string) string {
	normalized := NormalizeDate(dateString)
	parts := strings.Split(normalized, "/")
	if len(parts) != 3 {
		return MonthCodes[0]
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return MonthCodes[0]
	}
	return MonthCodes[m-1]
}
