package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseTime attempts the known date/time layouts against a raw string.
func ParseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func missingToken(s string) bool {
	switch s {
	case "", "NA", "NaN", "nan", "null", "NULL", "None":
		return true
	}
	return false
}

// ParseCell converts a raw CSV field into a typed cell. Empty strings and the
// common missing markers become missing cells; numeric and boolean literals
// are typed; everything else stays a string.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if missingToken(s) {
		return Missing
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	switch s {
	case "true", "True", "TRUE":
		return Bool(true)
	case "false", "False", "FALSE":
		return Bool(false)
	}
	return String(s)
}

// LoadCSV reads a CSV file into a table. The first record is the header;
// short records are padded with missing cells.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		r.Comma = '\t'
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	names := make([]string, ncol)
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	cells := make([][]Value, ncol)

	row := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		for j := 0; j < ncol; j++ {
			if j < len(rec) {
				cells[j] = append(cells[j], ParseCell(rec[j]))
			} else {
				cells[j] = append(cells[j], Missing)
			}
		}
	}

	t := New()
	for j, name := range names {
		if err := t.AddColumn(name, cells[j]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteCSV writes the table to w with a header row. Missing cells are written
// as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rows := t.NumRows()
	rec := make([]string, t.NumCols())
	for i := 0; i < rows; i++ {
		for j, c := range t.cols {
			rec[j] = c.Cells[i].Format()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file path.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	return t.WriteCSV(f)
}
