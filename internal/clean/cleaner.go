// Package clean applies heuristic cleaning driven by a profile: column
// dropping by missingness, imputation, categorical encoding, and outlier
// clamping.
package clean

import (
	"sort"

	"github.com/KaramelBytes/smartetl-cli/internal/config"
	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
	"github.com/KaramelBytes/smartetl-cli/internal/profile"
)

// Encoding method names recorded per encoded column.
const (
	EncodeOneHot = "one_hot"
	EncodeLabel  = "label"
)

// one-hot above this many distinct values would explode column count
const oneHotMaxUnique = 10

// Cleaner transforms a table using the matching profile. Strategy decisions
// are introspectable after Clean for pipeline logging.
type Cleaner struct {
	MaxMissingPercent float64
	OutlierThreshold  float64
	Strategy          string

	// populated by Clean
	ImputationStrategies map[string]string
	Encoders             map[string]string
	DroppedColumns       []string
}

// New builds a Cleaner from configuration.
func New(cfg *config.Config) *Cleaner {
	return &Cleaner{
		MaxMissingPercent: cfg.DataCleaning.MaxMissingPercentage,
		OutlierThreshold:  cfg.DataCleaning.OutlierThreshold,
		Strategy:          cfg.DataCleaning.ImputationStrategy,
	}
}

// Clean returns a cleaned copy of the table. The input table is not mutated.
// Cleaning is type- and missingness-driven: the profile must carry per-column
// type labels and missing percentages.
func (c *Cleaner) Clean(t *dataset.Table, p *profile.Profile) *dataset.Table {
	c.ImputationStrategies = make(map[string]string)
	c.Encoders = make(map[string]string)
	c.DroppedColumns = nil

	out := t.Copy()

	// drop columns that exceed the missing-percentage budget
	for _, name := range p.Order {
		if pct, ok := p.Missing.ColumnsMissingPct[name]; ok && pct > c.MaxMissingPercent {
			out.DropColumn(name)
			c.DroppedColumns = append(c.DroppedColumns, name)
		}
	}

	for _, col := range out.Columns() {
		if col.MissingCount() == 0 {
			continue
		}
		strategy := c.strategyFor(col)
		imputeColumn(col, strategy)
		c.ImputationStrategies[col.Name] = strategy
	}

	for _, name := range p.Order {
		col := out.Column(name)
		if col == nil || p.DataTypes[name] != profile.TypeNumerical || !col.IsNumeric() {
			continue
		}
		clampOutliers(col, c.OutlierThreshold)
	}

	// encode string-form categorical columns; low-cardinality numeric columns
	// labeled categorical are already numeric and stay as-is
	for _, name := range p.Order {
		col := out.Column(name)
		if col == nil || p.DataTypes[name] != profile.TypeCategorical {
			continue
		}
		if col.Kind() != dataset.KindString {
			continue
		}
		if col.DistinctNonMissing() <= oneHotMaxUnique {
			oneHotEncode(out, name)
			c.Encoders[name] = EncodeOneHot
		} else {
			labelEncode(col)
			c.Encoders[name] = EncodeLabel
		}
	}

	return out
}

// strategyFor picks the imputation strategy: numeric columns follow the
// configured strategy (median under "auto"), everything else takes the mode.
func (c *Cleaner) strategyFor(col *dataset.Column) string {
	if !col.IsNumeric() {
		return "mode"
	}
	switch c.Strategy {
	case "mean":
		return "mean"
	case "mode":
		return "mode"
	default:
		return "median"
	}
}

func imputeColumn(col *dataset.Column, strategy string) {
	var fill dataset.Value
	switch strategy {
	case "mean":
		vals := col.Floats()
		if len(vals) == 0 {
			return
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		fill = dataset.Float(sum / float64(len(vals)))
	case "median":
		vals := col.Floats()
		if len(vals) == 0 {
			return
		}
		sort.Float64s(vals)
		mid := len(vals) / 2
		if len(vals)%2 == 0 {
			fill = dataset.Float((vals[mid-1] + vals[mid]) / 2)
		} else {
			fill = dataset.Float(vals[mid])
		}
	default: // mode
		v, ok := modeValue(col)
		if !ok {
			return
		}
		fill = v
	}
	for i, v := range col.Cells {
		if v.IsMissing() {
			col.Cells[i] = fill
		}
	}
}

// modeValue returns the most frequent non-missing cell; frequency ties break
// on the lexically smallest formatted value so imputation is deterministic.
func modeValue(col *dataset.Column) (dataset.Value, bool) {
	counts := make(map[string]int)
	first := make(map[string]dataset.Value)
	for _, v := range col.Cells {
		if v.IsMissing() {
			continue
		}
		key := v.Format()
		counts[key]++
		if _, ok := first[key]; !ok {
			first[key] = v
		}
	}
	if len(counts) == 0 {
		return dataset.Missing, false
	}
	bestKey := ""
	bestCount := -1
	for key, n := range counts {
		if n > bestCount || (n == bestCount && key < bestKey) {
			bestKey = key
			bestCount = n
		}
	}
	return first[bestKey], true
}

// clampOutliers pulls values outside the IQR fences back to the fence,
// with fences at quartile ± threshold*IQR.
func clampOutliers(col *dataset.Column, threshold float64) {
	vals := col.Floats()
	if len(vals) < 4 {
		return
	}
	sort.Float64s(vals)
	q1 := interpolate(vals, 0.25)
	q3 := interpolate(vals, 0.75)
	iqr := q3 - q1
	lo := q1 - threshold*iqr
	hi := q3 + threshold*iqr
	for i, v := range col.Cells {
		f, ok := v.Float64()
		if !ok {
			continue
		}
		if f < lo {
			col.Cells[i] = dataset.Float(lo)
		} else if f > hi {
			col.Cells[i] = dataset.Float(hi)
		}
	}
}

func interpolate(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// oneHotEncode replaces a categorical column with one indicator column per
// distinct value, named col_value, in sorted value order.
func oneHotEncode(t *dataset.Table, name string) {
	col := t.Column(name)
	if col == nil {
		return
	}
	values := make(map[string]struct{})
	for _, v := range col.Cells {
		if v.IsMissing() {
			continue
		}
		values[v.Format()] = struct{}{}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cells := append([]dataset.Value(nil), col.Cells...)
	t.DropColumn(name)
	for _, key := range keys {
		indicator := make([]dataset.Value, len(cells))
		for i, v := range cells {
			if v.IsMissing() {
				indicator[i] = dataset.Missing
				continue
			}
			if v.Format() == key {
				indicator[i] = dataset.Float(1)
			} else {
				indicator[i] = dataset.Float(0)
			}
		}
		_ = t.AddColumn(name+"_"+key, indicator)
	}
}

// labelEncode maps distinct values to integer codes in sorted value order.
func labelEncode(col *dataset.Column) {
	values := make(map[string]struct{})
	for _, v := range col.Cells {
		if v.IsMissing() {
			continue
		}
		values[v.Format()] = struct{}{}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	codes := make(map[string]int, len(keys))
	for i, k := range keys {
		codes[k] = i
	}
	for i, v := range col.Cells {
		if v.IsMissing() {
			continue
		}
		col.Cells[i] = dataset.Float(float64(codes[v.Format()]))
	}
}
