package feature

import (
	"math"

	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
)

const mutualInfoMaxBins = 10

// mutualInformation estimates the mutual information (nats) between a numeric
// predictor and a target column. The predictor is discretized into equal-width
// bins; target values act as discrete class labels. Rows with a missing value
// on either side are dropped. Deterministic: no sampling.
func mutualInformation(pred, target *dataset.Column) float64 {
	type pair struct {
		bin   int
		class string
	}
	var xs []float64
	var classes []string
	for i := range pred.Cells {
		f, ok := pred.Cells[i].Float64()
		if !ok || target.Cells[i].IsMissing() {
			continue
		}
		xs = append(xs, f)
		classes = append(classes, target.Cells[i].Format())
	}
	n := len(xs)
	if n < 2 {
		return 0
	}

	lo, hi := xs[0], xs[0]
	distinct := make(map[float64]struct{})
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		distinct[x] = struct{}{}
	}
	bins := len(distinct)
	if bins > mutualInfoMaxBins {
		bins = mutualInfoMaxBins
	}
	if bins < 1 || lo == hi {
		return 0
	}
	width := (hi - lo) / float64(bins)

	joint := make(map[pair]int)
	binCount := make(map[int]int)
	classCount := make(map[string]int)
	for i, x := range xs {
		b := int(math.Floor((x - lo) / width))
		if b >= bins {
			b = bins - 1
		}
		joint[pair{b, classes[i]}]++
		binCount[b]++
		classCount[classes[i]]++
	}

	var mi float64
	fn := float64(n)
	for p, c := range joint {
		pxy := float64(c) / fn
		px := float64(binCount[p.bin]) / fn
		py := float64(classCount[p.class]) / fn
		mi += pxy * math.Log(pxy/(px*py))
	}
	if mi < 0 {
		mi = 0
	}
	return mi
}
