package pipeline

import (
	"strings"

	"inventox/internal"
	"inventox/internal/util"
)

// ColumnKinds classifies each column. A column is numeric when it has at least one
// value and every value is an untrimmed number that util.ParseNumber accepts.
func ColumnKinds(t internal.Table) []internal.ColumnKind {
	kinds := make([]internal.ColumnKind, len(t.Columns))
	for c := range t.Columns {
		numeric, seen := true, false
		for _, row := range t.Rows {
			cell := row[c]
			if !cell.Valid {
				continue
			}
			seen = true
			if _, ok := util.ParseNumber(cell.Value); !ok || cell.Value != strings.TrimSpace(cell.Value) {
				numeric = false
				break
			}
		}
		if numeric && seen {
			kinds[c] = internal.KindNumeric
		} else {
			kinds[c] = internal.KindText
		}
	}
	return kinds
}

// NormalizeCells trims every cell of every text column and turns placeholder
// values ("nan", "NaN", "None", "") into nulls. Numeric columns are left alone.
func NormalizeCells(t internal.Table) (internal.Table, internal.CellReport) {
	out := t.Clone()
	report := internal.CellReport{}
	for c, kind := range ColumnKinds(t) {
		if kind != internal.KindText {
			continue
		}
		report.TextColumns++
		for _, row := range out.Rows {
			cell := row[c]
			if !cell.Valid {
				continue
			}
			trimmed := strings.TrimSpace(cell.Value)
			if trimmed != cell.Value {
				report.Trimmed++
			}
			if util.IsPlaceholderValue(trimmed) {
				row[c] = internal.Null()
				report.Nulled++
				continue
			}
			row[c] = internal.Text(trimmed)
		}
	}
	return out, report
}
