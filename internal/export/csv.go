// Package export builds the semicolon-separated CSV documents offered by the
// direction views. French locale conventions: every field quoted, dates as
// dd/mm/yyyy, decimal comma for money, UTF-8 BOM for spreadsheet import.
package export

import (
	"fmt"
	"strings"
	"time"
)

const bom = "\ufeff"

// Field quotes one value: embedded quotes doubled, newlines flattened to spaces.
func Field(v string) string {
	s := strings.ReplaceAll(v, `"`, `""`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return `"` + s + `"`
}

// Line joins quoted fields with the locale separator.
func Line(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = Field(f)
	}
	return strings.Join(quoted, ";")
}

// Document assembles header + rows into a BOM-prefixed CSV body.
func Document(header []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Line(header))
	for _, r := range rows {
		lines = append(lines, Line(r))
	}
	return bom + strings.Join(lines, "\n")
}

// Filename returns e.g. "commissions_2026-09.csv" for the current month.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("2006-01"))
}

// FormatDate renders a timestamp as dd/mm/yyyy; nil renders empty.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatMoney renders an amount with two decimals and a decimal comma.
func FormatMoney(amount float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", amount), ".", ",", 1)
}
