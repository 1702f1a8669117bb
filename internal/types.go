package internal

// Cell is one table value. Valid=false marks a null cell.
type Cell struct {
	Value string
	Valid bool
}

func Text(v string) Cell { return Cell{Value: v, Valid: true} }

func Null() Cell { return Cell{} }

type Row []Cell

// Table is an ordered set of rows whose cells line up with Columns by position.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so transforms never share row storage with their input.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

type ColumnRole string

const (
	RoleIdentifier ColumnRole = "identifier"
	RoleLabel      ColumnRole = "label"
)

type ColumnKind string

const (
	KindText    ColumnKind = "text"
	KindNumeric ColumnKind = "numeric"
)

type SourceFormat string

const (
	FormatXLSX      SourceFormat = "xlsx"
	FormatCSV       SourceFormat = "csv"
	FormatHTMLTable SourceFormat = "html_table"
)

type ResolvedColumns struct {
	Identifier string
	Label      string
}

type LoadReport struct {
	Format  SourceFormat
	Sheet   string
	Rows    int
	Columns int
}

type CellReport struct {
	TextColumns int
	Trimmed     int
	Nulled      int
}

type FillReport struct {
	Filled     int
	Unfillable int
}

type DedupeReport struct {
	Removed    int
	Remaining  int
	Collisions []string
}

type PruneReport struct {
	Removed []string
}

type Summary struct {
	Rows              int
	UniqueIdentifiers int
	BlankIdentifiers  int
	Duplicates        int
}

type OutputFiles struct {
	Spreadsheet string
	CSV         string
}

type RunRecord struct {
	ID          string
	Input       string
	Spreadsheet string
	CSV         string
	Status      string
	Error       string
	Counts      map[string]int
	Timings     map[string]float64
	CreatedAt   string
}
