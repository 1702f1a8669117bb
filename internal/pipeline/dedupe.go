package pipeline

import (
	"slices"

	"inventox/internal"
)

const nullKey = "\x00null"

// Deduplicate keeps the first row for each identifier value in original order.
// filled marks, per row, identifiers copied from the label column. Collisions
// lists, once each, the identifiers of dropped rows that were filled: those rows
// had no identifier of their own, so losing them is worth a warning.
func Deduplicate(t internal.Table, identifier string, filled []bool) (internal.Table, internal.DedupeReport) {
	idIdx := t.ColumnIndex(identifier)

	out := internal.Table{Columns: append([]string(nil), t.Columns...), Rows: make([]internal.Row, 0, len(t.Rows))}
	report := internal.DedupeReport{Collisions: []string{}}
	seen := map[string]struct{}{}
	for i, r := range t.Rows {
		key := identifierKey(r[idIdx])
		if _, dup := seen[key]; dup {
			report.Removed++
			if i < len(filled) && filled[i] && !slices.Contains(report.Collisions, key) {
				report.Collisions = append(report.Collisions, key)
			}
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, append(internal.Row(nil), r...))
	}
	report.Remaining = len(out.Rows)
	return out, report
}

func identifierKey(c internal.Cell) string {
	if !c.Valid {
		return nullKey
	}
	return c.Value
}
