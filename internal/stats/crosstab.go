package stats

import "sort"

// Normalization selects how crosstab counts are turned into percentages.
type Normalization string

const (
	NormalizeNone    Normalization = "none"
	NormalizeIndex   Normalization = "index"   // each row sums to 100
	NormalizeColumns Normalization = "columns" // each column sums to 100
	NormalizeAll     Normalization = "all"     // the whole table sums to 100
)

// Crosstab is a two-way frequency table.
type Crosstab struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// CrosstabBuilder accumulates (row, column) counts.
type CrosstabBuilder struct {
	counts map[string]map[string]float64
	cols   map[string]struct{}
}

// NewCrosstabBuilder creates an empty builder.
func NewCrosstabBuilder() *CrosstabBuilder {
	return &CrosstabBuilder{
		counts: make(map[string]map[string]float64),
		cols:   make(map[string]struct{}),
	}
}

// Add adds n observations of (row, col).
func (b *CrosstabBuilder) Add(row, col string, n float64) {
	r, ok := b.counts[row]
	if !ok {
		r = make(map[string]float64)
		b.counts[row] = r
	}
	r[col] += n
	b.cols[col] = struct{}{}
}

// Build returns the table with rows and columns in order, applying norm.
// Keys missing from order are appended alphabetically.
func (b *CrosstabBuilder) Build(rowOrder, colOrder []string, norm Normalization) Crosstab {
	rows := orderKeys(keysOf(b.counts), rowOrder)
	cols := orderKeys(keysOf(b.cols), colOrder)

	ct := Crosstab{Rows: rows, Columns: cols, Values: make([][]float64, len(rows))}
	for i, r := range rows {
		ct.Values[i] = make([]float64, len(cols))
		for j, c := range cols {
			ct.Values[i][j] = b.counts[r][c]
		}
	}
	ct.normalize(norm)
	return ct
}

func (ct *Crosstab) normalize(norm Normalization) {
	switch norm {
	case NormalizeIndex:
		for i := range ct.Values {
			scale(ct.Values[i], Sum(ct.Values[i]))
		}
	case NormalizeColumns:
		for j := range ct.Columns {
			var total float64
			for i := range ct.Values {
				total += ct.Values[i][j]
			}
			for i := range ct.Values {
				if total > 0 {
					ct.Values[i][j] = ct.Values[i][j] / total * 100
				}
			}
		}
	case NormalizeAll:
		var total float64
		for i := range ct.Values {
			total += Sum(ct.Values[i])
		}
		for i := range ct.Values {
			scale(ct.Values[i], total)
		}
	}
}

func scale(row []float64, total float64) {
	if total == 0 {
		return
	}
	for j := range row {
		row[j] = row[j] / total * 100
	}
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// orderKeys returns present keys following order, then the rest sorted.
func orderKeys(present, order []string) []string {
	seen := make(map[string]bool, len(present))
	for _, k := range present {
		seen[k] = true
	}

	out := make([]string, 0, len(present))
	for _, k := range order {
		if seen[k] {
			out = append(out, k)
			delete(seen, k)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
