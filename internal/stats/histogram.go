package stats

// Bin is one histogram bucket covering [Start, End), the last bin is closed.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram is an equal-width histogram together with the markers drawn on top
// of it in the trip dashboards: quartiles and mean.
type Histogram struct {
	Bins   []Bin   `json:"bins"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// NewHistogram splits values into nbins equal-width bins spanning [min, max].
func NewHistogram(values []float64, nbins int) Histogram {
	if nbins <= 0 {
		nbins = 1
	}
	h := Histogram{Count: len(values)}
	if len(values) == 0 {
		return h
	}

	sorted := sortedCopy(values)
	h.Q1 = quantileSorted(sorted, 0.25)
	h.Median = quantileSorted(sorted, 0.5)
	h.Q3 = quantileSorted(sorted, 0.75)
	h.Mean = Mean(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		h.Bins = []Bin{{Start: lo, End: hi, Count: len(sorted)}}
		return h
	}

	width := (hi - lo) / float64(nbins)
	h.Bins = make([]Bin, nbins)
	for i := range h.Bins {
		h.Bins[i].Start = lo + float64(i)*width
		h.Bins[i].End = lo + float64(i+1)*width
	}
	h.Bins[nbins-1].End = hi

	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= nbins {
			idx = nbins - 1
		}
		h.Bins[idx].Count++
	}
	return h
}
