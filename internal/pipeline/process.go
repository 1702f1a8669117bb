package pipeline

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"inventox/internal"
	"inventox/internal/config"
	"inventox/internal/storage"
)

const maxListed = 10

type Normalizer struct {
	cfg    config.Config
	db     *storage.DB
	out    io.Writer
	errOut io.Writer
}

// NewNormalizer builds a runner that prints progress to out and failures to errOut.
// db may be nil, in which case runs are not recorded.
func NewNormalizer(cfg config.Config, db *storage.DB, out, errOut io.Writer) *Normalizer {
	return &Normalizer{cfg: cfg, db: db, out: out, errOut: errOut}
}

type Result struct {
	Columns internal.ResolvedColumns
	Load    internal.LoadReport
	Cells   internal.CellReport
	Fill    internal.FillReport
	Trimmed int
	Dedupe  internal.DedupeReport
	Prune   internal.PruneReport
	Outputs internal.OutputFiles
	Summary internal.Summary
	Table   internal.Table
	Timings map[string]float64
}

// Prepare runs the pipeline and reports the outcome. It never returns an error or
// panics: failures are printed with their trace and signalled by returning false.
func (n *Normalizer) Prepare(input, output string) bool {
	runID := uuid.NewString()
	res, err := n.Run(input, output)
	n.record(runID, input, res, err)
	if err != nil {
		n.reportFailure(err)
		return false
	}
	n.logf("ready for import: %s", res.Outputs.Spreadsheet)
	n.logf("ready for import: %s", res.Outputs.CSV)
	return true
}

// Run loads input, applies every cleaning step in order and writes both outputs.
// The returned error is always one of the taxonomy types, wrapped with a stack.
func (n *Normalizer) Run(input, output string) (res Result, err error) {
	res.Timings = map[string]float64{}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errors.WithStack(&UnexpectedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()})
		}
		err = Classify(err)
		res.Timings["totalMs"] = msSince(start)
	}()

	n.logf("processing input=%s", input)
	step := time.Now()
	table, load, err := LoadTable(input, LoadOptions{Sheet: n.cfg.SheetName, Charset: n.cfg.InputCharset})
	if err != nil {
		return res, err
	}
	res.Load = load
	res.Timings["loadMs"] = msSince(step)
	n.logf("loaded format=%s rows=%d columns=%d", load.Format, load.Rows, load.Columns)

	cols, err := ResolveColumns(table.Columns, n.cfg.IdentifierNames, n.cfg.LabelNames)
	if err != nil {
		return res, err
	}
	res.Columns = cols
	n.logf("identifier column=%q label column=%q", cols.Identifier, cols.Label)

	step = time.Now()
	table, res.Cells = NormalizeCells(table)
	n.logf("normalized text columns=%d trimmed=%d nulled=%d", res.Cells.TextColumns, res.Cells.Trimmed, res.Cells.Nulled)

	table, fill, filled := FillBlankIdentifiers(table, cols)
	res.Fill = fill
	n.logf("filled blank identifiers=%d from %q", fill.Filled, cols.Label)
	if fill.Unfillable > 0 {
		n.warnf("dropped %d rows with neither identifier nor label", fill.Unfillable)
	}

	table, res.Trimmed = TrimIdentifiers(table, cols.Identifier)

	table, res.Dedupe = Deduplicate(table, cols.Identifier, filled)
	n.logf("deduplicated removed=%d remaining=%d", res.Dedupe.Removed, res.Dedupe.Remaining)
	if len(res.Dedupe.Collisions) > 0 {
		n.warnf("%d filled identifiers collided and lost rows: %s", len(res.Dedupe.Collisions), listed(res.Dedupe.Collisions))
	}

	table, res.Prune = PruneColumns(table)
	n.logf("pruned columns=%d", len(res.Prune.Removed))
	if n.cfg.Verbose && len(res.Prune.Removed) > 0 {
		n.logf("pruned: %s", listed(res.Prune.Removed))
	}
	res.Timings["transformMs"] = msSince(step)

	step = time.Now()
	res.Outputs = OutputPaths(input, output, n.cfg.OutputSuffix, n.cfg.CSVExt)
	if err := CheckOutputPaths(input, res.Outputs); err != nil {
		return res, err
	}
	if err := WriteXLSX(table, res.Outputs.Spreadsheet, cols.Identifier); err != nil {
		return res, err
	}
	n.logf("wrote spreadsheet=%s", res.Outputs.Spreadsheet)
	if err := WriteCSV(table, res.Outputs.CSV, n.cfg.CSVDelimiter); err != nil {
		return res, err
	}
	n.logf("wrote csv=%s", res.Outputs.CSV)
	res.Timings["writeMs"] = msSince(step)

	res.Table = table
	res.Summary = Summarize(table, cols.Identifier)
	n.logf("summary loaded=%d unfillable=%d deduplicated=%d rows=%d unique=%d blank=%d duplicates=%d",
		res.Load.Rows, res.Fill.Unfillable, res.Dedupe.Removed,
		res.Summary.Rows, res.Summary.UniqueIdentifiers, res.Summary.BlankIdentifiers, res.Summary.Duplicates)
	if n.cfg.Verbose {
		n.logf("timings load=%.0fms transform=%.0fms write=%.0fms", res.Timings["loadMs"], res.Timings["transformMs"], res.Timings["writeMs"])
	}
	return res, nil
}

func (n *Normalizer) reportFailure(err error) {
	fmt.Fprintf(n.errOut, "error: %v\n", err)
	fmt.Fprintf(n.errOut, "%+v\n", err)
	var unexpected *UnexpectedError
	if errors.As(err, &unexpected) && len(unexpected.Stack) > 0 {
		fmt.Fprintf(n.errOut, "%s\n", unexpected.Stack)
	}
}

func (n *Normalizer) record(runID, input string, res Result, runErr error) {
	if n.db == nil {
		return
	}
	run := internal.RunRecord{
		ID:          runID,
		Input:       input,
		Spreadsheet: res.Outputs.Spreadsheet,
		CSV:         res.Outputs.CSV,
		Status:      "ok",
		Counts: map[string]int{
			"loaded":      res.Load.Rows,
			"filled":      res.Fill.Filled,
			"unfillable":  res.Fill.Unfillable,
			"duplicates":  res.Dedupe.Removed,
			"collisions":  len(res.Dedupe.Collisions),
			"prunedCols":  len(res.Prune.Removed),
			"rows":        res.Summary.Rows,
			"uniqueIds":   res.Summary.UniqueIdentifiers,
			"blankIds":    res.Summary.BlankIdentifiers,
			"residualDup": res.Summary.Duplicates,
		},
		Timings: res.Timings,
	}
	if runErr != nil {
		run.Status = "failed"
		run.Error = runErr.Error()
		run.Spreadsheet, run.CSV = "", ""
	}
	if err := n.db.InsertRun(run); err != nil {
		n.warnf("run ledger: %v", err)
	}
}

func (n *Normalizer) logf(format string, args ...any) {
	fmt.Fprintf(n.out, format+"\n", args...)
}

func (n *Normalizer) warnf(format string, args ...any) {
	fmt.Fprintf(n.errOut, "warning: "+format+"\n", args...)
}

func listed(values []string) string {
	if len(values) <= maxListed {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(values[:maxListed], ", "), len(values)-maxListed)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
