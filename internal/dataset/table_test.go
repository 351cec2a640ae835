package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCell(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
	}{
		{"", KindMissing},
		{"NA", KindMissing},
		{"NaN", KindMissing},
		{"null", KindMissing},
		{"3.14", KindFloat},
		{"-2", KindFloat},
		{"true", KindBool},
		{"False", KindBool},
		{"hello", KindString},
		{"2023-01-15", KindString}, // time parsing is deferred to consumers
	}
	for _, tc := range cases {
		if got := ParseCell(tc.raw).Kind(); got != tc.kind {
			t.Fatalf("ParseCell(%q) kind = %d, want %d", tc.raw, got, tc.kind)
		}
	}
}

func TestColumnKind(t *testing.T) {
	numeric := &Column{Name: "n", Cells: []Value{Float(1), Missing, Bool(true)}}
	if !numeric.IsNumeric() {
		t.Fatalf("numeric column with bool cells should be numeric")
	}
	mixed := &Column{Name: "m", Cells: []Value{Float(1), String("a")}}
	if mixed.IsNumeric() {
		t.Fatalf("mixed column should not be numeric")
	}
}

func TestDuplicateRows(t *testing.T) {
	tbl := New()
	if err := tbl.AddColumn("a", []Value{Float(1), Float(2), Float(1), Float(1)}); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := tbl.AddColumn("b", []Value{String("x"), String("y"), String("x"), String("z")}); err != nil {
		t.Fatalf("add column: %v", err)
	}
	// row 2 duplicates row 0; row 3 differs in column b
	if got := tbl.DuplicateRows(); got != 1 {
		t.Fatalf("duplicate rows = %d, want 1", got)
	}
}

func TestCopyDoesNotMutateSource(t *testing.T) {
	tbl := New()
	_ = tbl.AddColumn("a", []Value{Float(1), Float(2)})
	cp := tbl.Copy()
	cp.Column("a").Cells[0] = Float(99)
	cp.DropColumn("a")
	if f, _ := tbl.Column("a").Cells[0].Float64(); f != 1 {
		t.Fatalf("source mutated: a[0] = %v", f)
	}
	if tbl.NumCols() != 1 {
		t.Fatalf("source columns = %d, want 1", tbl.NumCols())
	}
}

func TestValidate(t *testing.T) {
	tbl := New()
	_ = tbl.AddColumn("a", []Value{Float(1)})
	if ok, _ := tbl.Validate(1, nil); !ok {
		t.Fatalf("expected valid table")
	}
	if ok, reason := tbl.Validate(2, nil); ok || !strings.Contains(reason, "fewer than 2 rows") {
		t.Fatalf("expected row failure, got ok=%v reason=%q", ok, reason)
	}
	if ok, reason := tbl.Validate(1, []string{"a", "missing_col"}); ok || !strings.Contains(reason, "missing_col") {
		t.Fatalf("expected column failure, got ok=%v reason=%q", ok, reason)
	}
	var nilTable *Table
	if ok, _ := nilTable.Validate(1, nil); ok {
		t.Fatalf("nil table should be invalid")
	}
}

func TestLoadCSVRoundTrip(t *testing.T) {
	rows := []string{
		"id,score,label,note",
		"1,10.5,A,first",
		"2,,B,second",
		"3,30.25,A,",
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	tbl, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tbl.NumRows() != 3 || tbl.NumCols() != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", tbl.NumRows(), tbl.NumCols())
	}
	if !tbl.Column("score").Cells[1].IsMissing() {
		t.Fatalf("score[1] should be missing")
	}
	if !tbl.Column("note").Cells[2].IsMissing() {
		t.Fatalf("note[2] should be missing")
	}
	if got := tbl.NumericColumnNames(); len(got) != 2 || got[0] != "id" || got[1] != "score" {
		t.Fatalf("numeric columns = %v", got)
	}

	out := filepath.Join(dir, "out.csv")
	if err := tbl.SaveCSV(out); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	back, err := LoadCSV(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.NumRows() != 3 || back.NumCols() != 4 {
		t.Fatalf("reload shape = %dx%d, want 3x4", back.NumRows(), back.NumCols())
	}
	if !back.Column("score").Cells[1].IsMissing() {
		t.Fatalf("missing cell lost in round trip")
	}
}

func TestSelectPreservesOrderAndSkipsUnknown(t *testing.T) {
	tbl := New()
	_ = tbl.AddColumn("a", []Value{Float(1)})
	_ = tbl.AddColumn("b", []Value{Float(2)})
	_ = tbl.AddColumn("c", []Value{Float(3)})
	sel := tbl.Select([]string{"c", "nope", "a"})
	if got := sel.ColumnNames(); len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Fatalf("selected columns = %v", got)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{"2023-01-15", "2023/01/15", "2023-01-15 10:30", "2023-01-15 10:30:45"} {
		if _, ok := ParseTime(s); !ok {
			t.Fatalf("ParseTime(%q) failed", s)
		}
	}
	if _, ok := ParseTime("not a date"); ok {
		t.Fatalf("ParseTime accepted garbage")
	}
}
