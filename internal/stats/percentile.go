package stats

import "math"

// Quantile calculates the q-th quantile (0 <= q <= 1) with linear interpolation
// between closest ranks, the default of most dataframe libraries.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return quantileSorted(sortedCopy(values), q)
}

// Quantiles computes several quantiles with a single sort.
func Quantiles(values []float64, qs []float64) []float64 {
	results := make([]float64, len(qs))
	if len(values) == 0 {
		return results
	}
	sorted := sortedCopy(values)
	for i, q := range qs {
		results[i] = quantileSorted(sorted, q)
	}
	return results
}

// Quartiles returns the three quartiles (Q1, Q2/median, Q3)
func Quartiles(values []float64) (q1, q2, q3 float64) {
	qs := Quantiles(values, []float64{0.25, 0.5, 0.75})
	return qs[0], qs[1], qs[2]
}

func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	q = math.Max(0, math.Min(1, q))

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
