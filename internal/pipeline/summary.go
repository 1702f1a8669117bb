package pipeline

import (
	"inventox/internal"
	"inventox/internal/util"
)

func Summarize(t internal.Table, identifier string) internal.Summary {
	idIdx := t.ColumnIndex(identifier)
	s := internal.Summary{Rows: len(t.Rows)}
	seen := map[string]struct{}{}
	for _, row := range t.Rows {
		cell := row[idIdx]
		if !cell.Valid || util.IsBlank(cell.Value) {
			s.BlankIdentifiers++
		}
		key := identifierKey(cell)
		if _, dup := seen[key]; dup {
			s.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		if cell.Valid {
			s.UniqueIdentifiers++
		}
	}
	return s
}
