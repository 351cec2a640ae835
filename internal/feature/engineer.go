// Package feature derives temporal, interaction, and rolling-statistical
// columns from a cleaned table, with optional supervised selection.
package feature

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/smartetl-cli/internal/config"
	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
)

const (
	interactionMaxColumns = 5
	rollingMinColumns     = 3
	rollingSourceColumns  = 3
	rollingWindow         = 3
)

// Engineer creates features. Tracking state is reset at the start of every
// CreateFeatures call; calls do not accumulate.
type Engineer struct {
	MaxFeatures int

	CreatedFeatures  []string
	SelectedFeatures []string
	Importance       map[string]float64

	// sources recorded for pipeline logging
	TemporalSources  []string
	InteractionPairs [][2]string
}

// New builds an Engineer from configuration.
func New(cfg *config.Config) *Engineer {
	return &Engineer{MaxFeatures: cfg.FeatureEngineering.MaxFeatures}
}

// CreateFeatures returns a new table with engineered columns. When a target
// column name is given and present, the result is narrowed to the selected
// numeric predictors plus the target.
func (e *Engineer) CreateFeatures(t *dataset.Table, target string) *dataset.Table {
	e.CreatedFeatures = nil
	e.SelectedFeatures = nil
	e.Importance = make(map[string]float64)
	e.TemporalSources = nil
	e.InteractionPairs = nil

	out := t.Copy()
	e.addTemporalFeatures(out)
	e.addInteractionFeatures(out)
	e.addRollingFeatures(out)

	if target != "" && out.HasColumn(target) {
		out = e.selectFeatures(out, target)
	}
	return out
}

// addTemporalFeatures derives year/month/day/dayofweek/quarter columns from
// every column whose name contains "date" or "time". Columns that cannot be
// coerced to times are skipped silently.
func (e *Engineer) addTemporalFeatures(t *dataset.Table) {
	for _, name := range t.ColumnNames() {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}
		col := t.Column(name)
		times, ok := coerceTimes(col)
		if !ok {
			continue
		}
		col.Cells = times

		derive := func(suffix string, f func(time.Time) float64) {
			cells := make([]dataset.Value, len(times))
			for i, v := range times {
				if ts, ok := v.Timestamp(); ok {
					cells[i] = dataset.Float(f(ts))
				} else {
					cells[i] = dataset.Missing
				}
			}
			full := name + suffix
			if t.AddColumn(full, cells) == nil {
				e.CreatedFeatures = append(e.CreatedFeatures, full)
			}
		}
		derive("_year", func(ts time.Time) float64 { return float64(ts.Year()) })
		derive("_month", func(ts time.Time) float64 { return float64(ts.Month()) })
		derive("_day", func(ts time.Time) float64 { return float64(ts.Day()) })
		// 0 = Monday
		derive("_dayofweek", func(ts time.Time) float64 { return float64((int(ts.Weekday()) + 6) % 7) })
		derive("_quarter", func(ts time.Time) float64 { return float64((int(ts.Month())-1)/3 + 1) })
		e.TemporalSources = append(e.TemporalSources, name)
	}
}

// coerceTimes converts a column to time cells. Any single non-missing cell
// that fails to parse disqualifies the column.
func coerceTimes(col *dataset.Column) ([]dataset.Value, bool) {
	out := make([]dataset.Value, len(col.Cells))
	sawValue := false
	for i, v := range col.Cells {
		if v.IsMissing() {
			out[i] = dataset.Missing
			continue
		}
		if ts, ok := v.Timestamp(); ok {
			out[i] = dataset.Time(ts)
			sawValue = true
			continue
		}
		s, ok := v.Str()
		if !ok {
			return nil, false
		}
		ts, ok := dataset.ParseTime(s)
		if !ok {
			return nil, false
		}
		out[i] = dataset.Time(ts)
		sawValue = true
	}
	return out, sawValue
}

// addInteractionFeatures creates pairwise products among the first few numeric
// columns, plus ratios when the denominator column is zero-free.
func (e *Engineer) addInteractionFeatures(t *dataset.Table) {
	numeric := t.NumericColumnNames()
	if len(numeric) > interactionMaxColumns {
		numeric = numeric[:interactionMaxColumns]
	}
	for i, a := range numeric {
		for _, b := range numeric[i+1:] {
			colA := t.Column(a)
			colB := t.Column(b)

			mul := combine(colA, colB, func(x, y float64) float64 { return x * y })
			mulName := fmt.Sprintf("%s_x_%s", a, b)
			if t.AddColumn(mulName, mul) == nil {
				e.CreatedFeatures = append(e.CreatedFeatures, mulName)
				e.InteractionPairs = append(e.InteractionPairs, [2]string{a, b})
			}

			// a single zero anywhere in the denominator disables the ratio
			if !hasZero(colB) {
				div := combine(colA, colB, func(x, y float64) float64 { return x / y })
				divName := fmt.Sprintf("%s_div_%s", a, b)
				if t.AddColumn(divName, div) == nil {
					e.CreatedFeatures = append(e.CreatedFeatures, divName)
				}
			}
		}
	}
}

func combine(a, b *dataset.Column, f func(x, y float64) float64) []dataset.Value {
	out := make([]dataset.Value, len(a.Cells))
	for i := range a.Cells {
		x, okX := a.Cells[i].Float64()
		y, okY := b.Cells[i].Float64()
		if okX && okY {
			out[i] = dataset.Float(f(x, y))
		} else {
			out[i] = dataset.Missing
		}
	}
	return out
}

func hasZero(col *dataset.Column) bool {
	for _, v := range col.Cells {
		if f, ok := v.Float64(); ok && f == 0 {
			return true
		}
	}
	return false
}

// addRollingFeatures adds trailing rolling mean and std columns (window 3,
// min periods 1) for the first three numeric columns, when at least three
// numeric columns exist.
func (e *Engineer) addRollingFeatures(t *dataset.Table) {
	numeric := t.NumericColumnNames()
	if len(numeric) < rollingMinColumns {
		return
	}
	for _, name := range numeric[:rollingSourceColumns] {
		col := t.Column(name)
		meanCells, stdCells := rollingStats(col, rollingWindow)
		meanName := name + "_rolling_mean"
		stdName := name + "_rolling_std"
		if t.AddColumn(meanName, meanCells) == nil {
			e.CreatedFeatures = append(e.CreatedFeatures, meanName)
		}
		if t.AddColumn(stdName, stdCells) == nil {
			e.CreatedFeatures = append(e.CreatedFeatures, stdName)
		}
	}
}

// rollingStats computes trailing mean and sample std over the preceding
// window rows including the current one. Mean is defined from the first row;
// std needs at least two observations in the window.
func rollingStats(col *dataset.Column, window int) (means, stds []dataset.Value) {
	n := len(col.Cells)
	means = make([]dataset.Value, n)
	stds = make([]dataset.Value, n)
	for i := 0; i < n; i++ {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var vals []float64
		for j := lo; j <= i; j++ {
			if f, ok := col.Cells[j].Float64(); ok {
				vals = append(vals, f)
			}
		}
		if len(vals) == 0 {
			means[i] = dataset.Missing
			stds[i] = dataset.Missing
			continue
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		mean := sum / float64(len(vals))
		means[i] = dataset.Float(mean)
		if len(vals) < 2 {
			stds[i] = dataset.Missing
			continue
		}
		var sq float64
		for _, v := range vals {
			d := v - mean
			sq += d * d
		}
		stds[i] = dataset.Float(math.Sqrt(sq / float64(len(vals)-1)))
	}
	return means, stds
}

// selectFeatures scores every numeric predictor by mutual information with
// the target and keeps the top K = min(MaxFeatures, predictor count). The
// result is exactly the selected predictors plus the target. When there are
// no numeric predictors, selection is skipped and the table returned as-is.
func (e *Engineer) selectFeatures(t *dataset.Table, target string) *dataset.Table {
	targetCol := t.Column(target)
	var predictors []string
	for _, name := range t.NumericColumnNames() {
		if name != target {
			predictors = append(predictors, name)
		}
	}
	if len(predictors) == 0 {
		return t
	}

	for _, name := range predictors {
		e.Importance[name] = mutualInformation(t.Column(name), targetCol)
	}

	k := e.MaxFeatures
	if len(predictors) < k {
		k = len(predictors)
	}
	ranked := append([]string(nil), predictors...)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := e.Importance[ranked[i]], e.Importance[ranked[j]]
		if si == sj {
			return ranked[i] < ranked[j]
		}
		return si > sj
	})
	keep := make(map[string]struct{}, k)
	for _, name := range ranked[:k] {
		keep[name] = struct{}{}
	}

	// preserve table order among the selected columns
	for _, name := range predictors {
		if _, ok := keep[name]; ok {
			e.SelectedFeatures = append(e.SelectedFeatures, name)
		}
	}
	return t.Select(append(append([]string(nil), e.SelectedFeatures...), target))
}

// Summary reports created/selected counts and the top five features by score.
func (e *Engineer) Summary() string {
	var b strings.Builder
	b.WriteString("Feature Engineering Summary:\n")
	fmt.Fprintf(&b, "  Total features created: %d\n", len(e.CreatedFeatures))
	fmt.Fprintf(&b, "  Features selected: %d\n", len(e.SelectedFeatures))

	if len(e.Importance) > 0 {
		type scored struct {
			name  string
			score float64
		}
		top := make([]scored, 0, len(e.Importance))
		for name, score := range e.Importance {
			top = append(top, scored{name, score})
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].score == top[j].score {
				return top[i].name < top[j].name
			}
			return top[i].score > top[j].score
		})
		if len(top) > 5 {
			top = top[:5]
		}
		b.WriteString("  Top 5 most important features:\n")
		for _, s := range top {
			fmt.Fprintf(&b, "    %s: %.4f\n", s.name, s.score)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
