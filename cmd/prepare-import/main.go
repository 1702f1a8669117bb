package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"inventox/internal/config"
	"inventox/internal/pipeline"
	"inventox/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("prepare-import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, fs) }
	sheet := fs.String("sheet", cfg.SheetName, "worksheet to read (default: first sheet)")
	history := fs.String("history", cfg.HistoryDB, "record runs in this sqlite file")
	listRuns := fs.Bool("runs", false, "print recorded runs from -history and exit")
	limit := fs.Int("limit", cfg.RunsLimit, "number of runs printed by -runs")
	runID := fs.String("run", "", "print one recorded run from -history by id and exit")
	verbose := fs.Bool("v", cfg.Verbose, "print pruned column names and step timings")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	cfg.SheetName = *sheet
	cfg.HistoryDB = strings.TrimSpace(*history)
	cfg.Verbose = *verbose

	if id := strings.TrimSpace(*runID); id != "" {
		if err := printRun(cfg, id, stdout); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if *listRuns {
		if err := printRuns(cfg, *limit, stdout); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		usage(stderr, fs)
		return 1
	}
	input := rest[0]
	output := ""
	if len(rest) == 2 {
		output = rest[1]
	}

	var db *storage.DB
	if cfg.HistoryDB != "" {
		db, err = storage.Open(cfg.HistoryDB)
		if err != nil {
			fmt.Fprintf(stderr, "warning: run ledger disabled: %v\n", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	normalizer := pipeline.NewNormalizer(cfg, db, stdout, stderr)
	if !normalizer.Prepare(input, output) {
		return 1
	}
	return 0
}

func openHistory(cfg config.Config) (*storage.DB, error) {
	if err := cfg.Require("PREPARE_HISTORY_DB or -history", cfg.HistoryDB); err != nil {
		return nil, err
	}
	return storage.Open(cfg.HistoryDB)
}

func printRuns(cfg config.Config, limit int, w io.Writer) error {
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s %s status=%s input=%s rows=%d filled=%d duplicates=%d",
			r.CreatedAt, r.ID, r.Status, r.Input, r.Counts["rows"], r.Counts["filled"], r.Counts["duplicates"])
		if r.Error != "" {
			fmt.Fprintf(w, " error=%q", r.Error)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func printRun(cfg config.Config, id string, w io.Writer) error {
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	r, err := db.GetRun(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("run %s not found", id)
	}
	fmt.Fprintf(w, "run: %s\n", r.ID)
	fmt.Fprintf(w, "created: %s\n", r.CreatedAt)
	fmt.Fprintf(w, "status: %s\n", r.Status)
	fmt.Fprintf(w, "input: %s\n", r.Input)
	if r.Spreadsheet != "" {
		fmt.Fprintf(w, "spreadsheet: %s\n", r.Spreadsheet)
		fmt.Fprintf(w, "csv: %s\n", r.CSV)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "error: %s\n", r.Error)
	}
	countKeys := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		countKeys = append(countKeys, k)
	}
	slices.Sort(countKeys)
	for _, k := range countKeys {
		fmt.Fprintf(w, "  %s=%d\n", k, r.Counts[k])
	}
	timingKeys := make([]string, 0, len(r.Timings))
	for k := range r.Timings {
		timingKeys = append(timingKeys, k)
	}
	slices.Sort(timingKeys)
	for _, k := range timingKeys {
		fmt.Fprintf(w, "  %s=%.1f\n", k, r.Timings[k])
	}
	return nil
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: prepare-import [flags] <input-file> [<output-file>]")
	fmt.Fprintln(w, "fills blank barcodes from the article column, removes duplicate barcodes and")
	fmt.Fprintln(w, "empty columns, then writes <output-file> (.xlsx) and a UTF-8 .csv copy")
	fmt.Fprintln(w, "examples:")
	fmt.Fprintln(w, "  prepare-import 'Teste Inventario.xlsx'")
	fmt.Fprintln(w, "  prepare-import 'Teste Inventario.xlsx' 'Inventario_Limpo.xlsx'")
	fmt.Fprintln(w, "  prepare-import -history runs.db -runs")
	fmt.Fprintln(w, "  prepare-import -history runs.db -run <id>")
	fmt.Fprintln(w, "flags:")
	fs.PrintDefaults()
}
