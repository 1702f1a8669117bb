package pipeline

import (
	"inventox/internal"
	"inventox/internal/util"
)

// PruneColumns drops columns whose header is blank or a parser-generated placeholder.
func PruneColumns(t internal.Table) (internal.Table, internal.PruneReport) {
	keep := make([]int, 0, len(t.Columns))
	report := internal.PruneReport{Removed: []string{}}
	for i, h := range t.Columns {
		if util.IsPlaceholderHeader(h) {
			report.Removed = append(report.Removed, h)
			continue
		}
		keep = append(keep, i)
	}

	out := internal.Table{Columns: make([]string, 0, len(keep)), Rows: make([]internal.Row, 0, len(t.Rows))}
	for _, i := range keep {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for _, r := range t.Rows {
		row := make(internal.Row, 0, len(keep))
		for _, i := range keep {
			row = append(row, r[i])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, report
}
