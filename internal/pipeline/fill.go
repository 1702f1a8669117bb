package pipeline

import (
	"strings"

	"inventox/internal"
	"inventox/internal/util"
)

// FillBlankIdentifiers copies the label value into every row whose identifier is
// null or blank. Rows where the label is blank too have nothing to copy and are
// dropped; they are counted as Unfillable. The returned slice is aligned with the
// output rows and marks the ones whose identifier was filled.
func FillBlankIdentifiers(t internal.Table, cols internal.ResolvedColumns) (internal.Table, internal.FillReport, []bool) {
	idIdx := t.ColumnIndex(cols.Identifier)
	labelIdx := t.ColumnIndex(cols.Label)

	out := internal.Table{Columns: append([]string(nil), t.Columns...), Rows: make([]internal.Row, 0, len(t.Rows))}
	report := internal.FillReport{}
	filled := make([]bool, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := append(internal.Row(nil), r...)
		id := row[idIdx]
		if id.Valid && !util.IsBlank(id.Value) {
			out.Rows = append(out.Rows, row)
			filled = append(filled, false)
			continue
		}
		label := row[labelIdx]
		if !label.Valid || util.IsBlank(label.Value) {
			report.Unfillable++
			continue
		}
		row[idIdx] = internal.Text(label.Value)
		report.Filled++
		filled = append(filled, true)
		out.Rows = append(out.Rows, row)
	}
	return out, report, filled
}

// TrimIdentifiers trims the identifier column, which may hold values just copied
// from the label column. It returns how many cells changed.
func TrimIdentifiers(t internal.Table, identifier string) (internal.Table, int) {
	out := t.Clone()
	idIdx := out.ColumnIndex(identifier)
	changed := 0
	for _, row := range out.Rows {
		cell := row[idIdx]
		if !cell.Valid {
			continue
		}
		if trimmed := strings.TrimSpace(cell.Value); trimmed != cell.Value {
			row[idIdx] = internal.Text(trimmed)
			changed++
		}
	}
	return out, changed
}
