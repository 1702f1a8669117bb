package storage

import (
	"path/filepath"
	"testing"

	"inventox/internal"
)

func TestRunLedger(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	first := internal.RunRecord{
		ID:          "run-1",
		Input:       "stock.xlsx",
		Spreadsheet: "stock_PREPARADO.xlsx",
		CSV:         "stock_PREPARADO.csv",
		Status:      "ok",
		Counts:      map[string]int{"rows": 10, "filled": 2},
		Timings:     map[string]float64{"totalMs": 12},
	}
	second := internal.RunRecord{
		ID:     "run-2",
		Input:  "missing.xlsx",
		Status: "failed",
		Error:  "input file not found: missing.xlsx",
	}
	for _, run := range []internal.RunRecord{first, second} {
		if err := db.InsertRun(run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("len=%d", len(runs))
	}
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[0].Spreadsheet != "" || runs[0].Error == "" {
		t.Fatalf("failed run stored badly: %+v", runs[0])
	}
	if runs[1].Counts["filled"] != 2 || runs[1].Timings["totalMs"] != 12 {
		t.Fatalf("counts/timings lost: %+v", runs[1])
	}
	if runs[1].CreatedAt == "" {
		t.Fatal("createdAt not set")
	}

	got, err := db.GetRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.CSV != "stock_PREPARADO.csv" {
		t.Fatalf("GetRun=%+v", got)
	}
	missing, err := db.GetRun("nope")
	if err != nil || missing != nil {
		t.Fatalf("GetRun(nope)=%v, %v", missing, err)
	}

	limited, err := db.ListRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit ignored: len=%d", len(limited))
	}
}

func TestInsertRunDuplicateID(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	run := internal.RunRecord{ID: "same", Input: "a.xlsx", Status: "ok"}
	if err := db.InsertRun(run); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertRun(run); err == nil {
		t.Fatal("expected unique constraint error")
	}
}
