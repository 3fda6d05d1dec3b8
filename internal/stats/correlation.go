package stats

import "math"

// PearsonCorrelation calculates the Pearson correlation coefficient between two variables.
// Returns a value between -1 and 1, or 0 when either variable is constant or the
// inputs differ in length.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var sumXY, sumX2, sumY2 float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sumXY += dx * dy
		sumX2 += dx * dx
		sumY2 += dy * dy
	}

	if sumX2 == 0 || sumY2 == 0 {
		return 0
	}
	return sumXY / math.Sqrt(sumX2*sumY2)
}

// CorrelationMatrix is a symmetric matrix of pairwise Pearson coefficients.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Correlate builds the correlation matrix of the given columns. Every series must
// have the same length.
func Correlate(columns []string, series [][]float64) CorrelationMatrix {
	n := len(columns)
	m := CorrelationMatrix{Columns: columns, Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			r := PearsonCorrelation(series[i], series[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}
