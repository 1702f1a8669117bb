package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"inventox/internal"
)

func TestColumnKinds(t *testing.T) {
	in := table([]string{"qty", "code", "mixed", "padded", "empty"},
		internal.Row{tx("1"), tx("0012"), tx("1"), tx(" 2"), null},
		internal.Row{tx("2.5"), tx("0013"), tx("x"), tx("3"), null},
		internal.Row{null, null, null, null, null},
	)
	got := ColumnKinds(in)
	want := []internal.ColumnKind{internal.KindNumeric, internal.KindText, internal.KindText, internal.KindText, internal.KindText}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
}

func TestNormalizeCells(t *testing.T) {
	in := table([]string{"barcode", "Artigo", "Qtd"},
		internal.Row{tx(" B1 "), tx("nan"), tx("3")},
		internal.Row{tx("   "), tx("Widget"), tx("4")},
		internal.Row{tx("None"), tx(" NaN "), null},
	)
	got, report := NormalizeCells(in)

	want := table([]string{"barcode", "Artigo", "Qtd"},
		internal.Row{tx("B1"), null, tx("3")},
		internal.Row{null, tx("Widget"), tx("4")},
		internal.Row{null, null, null},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table (-want +got):\n%s", diff)
	}
	if report != (internal.CellReport{TextColumns: 2, Trimmed: 3, Nulled: 4}) {
		t.Fatalf("report=%+v", report)
	}
	if in.Rows[0][0] != tx(" B1 ") {
		t.Fatal("input table was mutated")
	}
}

func TestFillBlankIdentifiers(t *testing.T) {
	cols := internal.ResolvedColumns{Identifier: "ID", Label: "Name"}
	in := table([]string{"ID", "Name"},
		internal.Row{null, tx("Widget")},
		internal.Row{tx("   "), tx(" Spaced ")},
		internal.Row{tx("B1"), tx("Gadget")},
		internal.Row{null, null},
	)
	got, report, filled := FillBlankIdentifiers(in, cols)

	want := table([]string{"ID", "Name"},
		internal.Row{tx("Widget"), tx("Widget")},
		internal.Row{tx(" Spaced "), tx(" Spaced ")},
		internal.Row{tx("B1"), tx("Gadget")},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table (-want +got):\n%s", diff)
	}
	if report != (internal.FillReport{Filled: 2, Unfillable: 1}) {
		t.Fatalf("report=%+v", report)
	}
	if diff := cmp.Diff([]bool{true, true, false}, filled); diff != "" {
		t.Fatalf("filled (-want +got):\n%s", diff)
	}
	if in.Rows[0][0].Valid {
		t.Fatal("input table was mutated")
	}

	trimmed, changed := TrimIdentifiers(got, "ID")
	if changed != 1 || trimmed.Rows[1][0] != tx("Spaced") {
		t.Fatalf("changed=%d row=%+v", changed, trimmed.Rows[1])
	}
	if trimmed.Rows[1][1] != tx(" Spaced ") {
		t.Fatal("label column must not be touched by TrimIdentifiers")
	}
}

func TestDeduplicate(t *testing.T) {
	in := table([]string{"ID", "Name"},
		internal.Row{tx("Widget"), tx("Widget")},
		internal.Row{tx("B1"), tx("Gadget")},
		internal.Row{tx("B1"), tx("Gizmo")},
		internal.Row{tx("Widget"), tx("Widget")},
		internal.Row{tx("B1"), tx("Other")},
	)
	got, report := Deduplicate(in, "ID", []bool{true, false, false, true, false})

	want := table([]string{"ID", "Name"},
		internal.Row{tx("Widget"), tx("Widget")},
		internal.Row{tx("B1"), tx("Gadget")},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table (-want +got):\n%s", diff)
	}
	if report.Removed != 3 || report.Remaining != 2 {
		t.Fatalf("report=%+v", report)
	}
	if diff := cmp.Diff([]string{"Widget"}, report.Collisions); diff != "" {
		t.Fatalf("collisions (-want +got):\n%s", diff)
	}
}

func TestDeduplicateExplicitDuplicateOfFilledValue(t *testing.T) {
	in := table([]string{"ID", "Name"},
		internal.Row{tx("Widget"), tx("Widget")},
		internal.Row{tx("Widget"), tx("Widget v2")},
		internal.Row{tx("B1"), tx("Gadget")},
		internal.Row{tx("B1"), tx("B1")},
	)
	got, report := Deduplicate(in, "ID", []bool{true, false, false, true})
	if len(got.Rows) != 2 || report.Removed != 2 {
		t.Fatalf("rows=%d report=%+v", len(got.Rows), report)
	}
	if diff := cmp.Diff([]string{"B1"}, report.Collisions); diff != "" {
		t.Fatalf("collisions (-want +got):\n%s", diff)
	}
}

func TestPruneColumns(t *testing.T) {
	in := table([]string{"ID", "Unnamed: 1", "Name", " ", "Unnamed: 4.1"},
		internal.Row{tx("B1"), tx("junk"), tx("Gadget"), null, null},
	)
	got, report := PruneColumns(in)

	want := table([]string{"ID", "Name"}, internal.Row{tx("B1"), tx("Gadget")})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Unnamed: 1", " ", "Unnamed: 4.1"}, report.Removed); diff != "" {
		t.Fatalf("removed (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	in := table([]string{"ID"},
		internal.Row{tx("A")},
		internal.Row{tx("B")},
		internal.Row{tx("A")},
		internal.Row{null},
		internal.Row{tx(" ")},
	)
	got := Summarize(in, "ID")
	want := internal.Summary{Rows: 5, UniqueIdentifiers: 3, BlankIdentifiers: 2, Duplicates: 1}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
