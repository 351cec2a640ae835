// Package profile computes dataset profiles: per-column type inference,
// missing-value statistics, numeric summaries, and quality scoring.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
)

// Type labels assigned by inference.
const (
	TypeNumerical   = "numerical"
	TypeCategorical = "categorical"
	TypeDatetime    = "datetime"
	TypeText        = "text"
)

// Inference thresholds.
const (
	categoricalUniqueRatio = 0.5
	categoricalMaxUnique   = 100
	numericCategoricalMax  = 10
	duplicatePenaltyWeight = 10.0
)

// Overview summarizes table shape.
type Overview struct {
	NumRows       int
	NumColumns    int
	MemoryUsageMB float64
	DuplicateRows int
}

// MissingValues aggregates missing-cell statistics. Per-column maps only list
// columns with at least one missing cell.
type MissingValues struct {
	TotalMissing        int
	MissingPercentTotal float64
	ColumnsMissing      map[string]int
	ColumnsMissingPct   map[string]float64
}

// ColumnStats holds descriptive statistics for one numeric column.
type ColumnStats struct {
	Count    int
	Mean     float64
	Std      float64
	Min      float64
	Q25      float64
	Median   float64
	Q75      float64
	Max      float64
	Variance float64
	Skewness float64
}

// QualityMetrics scores dataset health. Overall is floored at 0 but not
// capped at 100; the upper bound is intentionally left open.
type QualityMetrics struct {
	OverallScore      float64
	CompletenessScore float64
	UniquenessScore   float64
}

// Profile is the full output of one Analyze call.
type Profile struct {
	Overview  Overview
	DataTypes map[string]string
	Missing   MissingValues
	Stats     map[string]ColumnStats
	Quality   QualityMetrics

	// column order of the source table, for deterministic rendering
	Order []string
}

// Profiler computes profiles. It keeps the last profile for Report.
type Profiler struct {
	last *Profile
}

// New returns a Profiler.
func New() *Profiler { return &Profiler{} }

// Analyze profiles the table. Deterministic: no randomness, no external state.
func (p *Profiler) Analyze(t *dataset.Table) *Profile {
	prof := &Profile{
		Overview:  overview(t),
		DataTypes: inferTypes(t),
		Missing:   missingValues(t),
		Stats:     statisticalSummary(t),
		Quality:   qualityMetrics(t),
		Order:     t.ColumnNames(),
	}
	p.last = prof
	return prof
}

func overview(t *dataset.Table) Overview {
	return Overview{
		NumRows:       t.NumRows(),
		NumColumns:    t.NumCols(),
		MemoryUsageMB: t.EstimateMemoryMB(),
		DuplicateRows: t.DuplicateRows(),
	}
}

// inferTypes assigns a label per column using a strict precedence:
// datetime, then string-form categorical, then low-cardinality numeric as
// categorical vs numerical, then text as the fallback.
func inferTypes(t *dataset.Table) map[string]string {
	types := make(map[string]string, t.NumCols())
	rows := t.NumRows()
	for _, c := range t.Columns() {
		switch {
		case isDatetimeColumn(c):
			types[c.Name] = TypeDatetime
		case isCategoricalString(c, rows):
			types[c.Name] = TypeCategorical
		case c.IsNumeric():
			if c.DistinctNonMissing() < numericCategoricalMax {
				types[c.Name] = TypeCategorical
			} else {
				types[c.Name] = TypeNumerical
			}
		default:
			types[c.Name] = TypeText
		}
	}
	return types
}

// isDatetimeColumn accepts columns already stored as times, or string columns
// where every non-missing value parses as a date/time. A single unparseable
// value disqualifies the whole column.
func isDatetimeColumn(c *dataset.Column) bool {
	if c.Kind() == dataset.KindTime {
		return true
	}
	sawValue := false
	for _, v := range c.Cells {
		if v.IsMissing() {
			continue
		}
		s, ok := v.Str()
		if !ok {
			return false
		}
		if _, ok := dataset.ParseTime(s); !ok {
			return false
		}
		sawValue = true
	}
	return sawValue
}

// isCategoricalString applies only to free-form string columns: the distinct
// ratio must stay under 0.5 and the distinct count under 100.
func isCategoricalString(c *dataset.Column, rows int) bool {
	if c.Kind() != dataset.KindString || rows == 0 {
		return false
	}
	unique := c.DistinctNonMissing()
	ratio := float64(unique) / float64(rows)
	return ratio < categoricalUniqueRatio && unique < categoricalMaxUnique
}

func missingValues(t *dataset.Table) MissingValues {
	mv := MissingValues{
		ColumnsMissing:    make(map[string]int),
		ColumnsMissingPct: make(map[string]float64),
	}
	rows := t.NumRows()
	for _, c := range t.Columns() {
		n := c.MissingCount()
		mv.TotalMissing += n
		if n > 0 {
			mv.ColumnsMissing[c.Name] = n
			mv.ColumnsMissingPct[c.Name] = float64(n) / float64(rows) * 100
		}
	}
	totalCells := rows * t.NumCols()
	if totalCells > 0 {
		mv.MissingPercentTotal = float64(mv.TotalMissing) / float64(totalCells) * 100
	}
	return mv
}

func statisticalSummary(t *dataset.Table) map[string]ColumnStats {
	stats := make(map[string]ColumnStats)
	for _, c := range t.Columns() {
		if !c.IsNumeric() {
			continue
		}
		vals := c.Floats()
		stats[c.Name] = describe(vals)
	}
	return stats
}

// describe computes count, mean, sample std/variance, quartiles, and skewness
// (third standardized moment) over the non-missing values.
func describe(vals []float64) ColumnStats {
	s := ColumnStats{Count: len(vals)}
	if len(vals) == 0 {
		return s
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	s.Mean = sum / float64(len(vals))

	var m2, m3 float64
	for _, v := range vals {
		d := v - s.Mean
		m2 += d * d
		m3 += d * d * d
	}
	if len(vals) > 1 {
		s.Variance = m2 / float64(len(vals)-1)
		s.Std = math.Sqrt(s.Variance)
	}
	popM2 := m2 / float64(len(vals))
	popM3 := m3 / float64(len(vals))
	if popM2 > 0 {
		s.Skewness = popM3 / math.Pow(popM2, 1.5)
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly over pre-sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func qualityMetrics(t *dataset.Table) QualityMetrics {
	rows := t.NumRows()
	totalCells := rows * t.NumCols()
	if totalCells == 0 {
		return QualityMetrics{OverallScore: 100, CompletenessScore: 100, UniquenessScore: 100}
	}
	var missing int
	for _, c := range t.Columns() {
		missing += c.MissingCount()
	}
	dups := t.DuplicateRows()

	completeness := 100 * (1 - float64(missing)/float64(totalCells))
	uniqueness := 100 * (1 - float64(dups)/float64(rows))
	overall := completeness - float64(dups)/float64(rows)*duplicatePenaltyWeight
	if overall < 0 {
		overall = 0
	}
	return QualityMetrics{
		OverallScore:      overall,
		CompletenessScore: completeness,
		UniquenessScore:   uniqueness,
	}
}

// Report renders the last profile as a fixed-layout text summary. Before the
// first Analyze it returns a sentinel message instead of failing.
func (p *Profiler) Report() string {
	if p.last == nil {
		return "No profile data available. Run Analyze() first."
	}
	prof := p.last

	var b strings.Builder
	line := strings.Repeat("=", 50)
	b.WriteString(line + "\n")
	b.WriteString(" SMART ETL DATA PROFILE REPORT\n")
	b.WriteString(line + "\n")

	ov := prof.Overview
	b.WriteString("Dataset Overview:\n")
	fmt.Fprintf(&b, "  Rows: %d\n", ov.NumRows)
	fmt.Fprintf(&b, "  Columns: %d\n", ov.NumColumns)
	fmt.Fprintf(&b, "  Memory: %.2f MB\n", ov.MemoryUsageMB)
	fmt.Fprintf(&b, "  Duplicates: %d\n", ov.DuplicateRows)

	b.WriteString("\nData Types:\n")
	for _, name := range prof.Order {
		fmt.Fprintf(&b, "  %s: %s\n", name, prof.DataTypes[name])
	}

	b.WriteString("\nMissing Values:\n")
	fmt.Fprintf(&b, "  Total missing: %d\n", prof.Missing.TotalMissing)
	fmt.Fprintf(&b, "  Missing percentage: %.2f%%\n", prof.Missing.MissingPercentTotal)

	q := prof.Quality
	b.WriteString("\nQuality Metrics:\n")
	fmt.Fprintf(&b, "  Overall Quality Score: %.1f/100\n", q.OverallScore)
	fmt.Fprintf(&b, "  Completeness Score: %.1f/100\n", q.CompletenessScore)
	fmt.Fprintf(&b, "  Uniqueness Score: %.1f/100\n", q.UniquenessScore)

	return b.String()
}
