package risk

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pzaman/portfolio-backend-go/internal/stats"
)

var (
	// ErrInsufficientData is returned when an attribute has no observations to score from.
	ErrInsufficientData = errors.New("insufficient historical data")
	// ErrMalformedTable is returned for tables holding negative counts.
	ErrMalformedTable = errors.New("malformed frequency table")
	// ErrUnknownAttribute is returned by ParseAttribute.
	ErrUnknownAttribute = errors.New("unknown risk attribute")
)

// FrequencyTable maps a bucket key to the number of historical accidents observed in it.
type FrequencyTable map[string]int64

// Total returns the sum of all counts.
func (t FrequencyTable) Total() int64 {
	var total int64
	for _, c := range t {
		total += c
	}
	return total
}

// Buckets returns the bucket keys in a stable order.
func (t FrequencyTable) Buckets() []string {
	return sortedKeys(t)
}

// NormalizedFrequency is a FrequencyTable divided by its total, so values sum to 1.
type NormalizedFrequency map[string]float64

// Normalize divides every count by the table total.
func Normalize(t FrequencyTable) (NormalizedFrequency, error) {
	if len(t) == 0 {
		return nil, ErrInsufficientData
	}
	for bucket, c := range t {
		if c < 0 {
			return nil, fmt.Errorf("%w: bucket %q has count %d", ErrMalformedTable, bucket, c)
		}
	}
	total := t.Total()
	if total == 0 {
		return nil, ErrInsufficientData
	}

	nf := make(NormalizedFrequency, len(t))
	for bucket, c := range t {
		nf[bucket] = float64(c) / float64(total)
	}
	return nf, nil
}

// Buckets returns the bucket keys in a stable order.
func (n NormalizedFrequency) Buckets() []string {
	return sortedKeys(n)
}

// Values returns the shares ordered like Buckets.
func (n NormalizedFrequency) Values() []float64 {
	keys := n.Buckets()
	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = n[k]
	}
	return values
}

// Mean returns the unweighted mean share across buckets.
func (n NormalizedFrequency) Mean() float64 {
	return stats.Mean(n.Values())
}

// MinMax returns the smallest and largest share.
func (n NormalizedFrequency) MinMax() (float64, float64) {
	values := n.Values()
	return stats.Min(values), stats.Max(values)
}

// Scaled returns the min-max scaled share of bucket. ok is false when the bucket was
// never observed. degenerate is true when every bucket holds the same share, in which
// case the returned score is neutral.
func (n NormalizedFrequency) Scaled(bucket string, neutral float64) (score float64, ok, degenerate bool) {
	share, ok := n[bucket]
	if !ok {
		return 0, false, false
	}
	lo, hi := n.MinMax()
	if hi == lo {
		return neutral, true, true
	}
	return (share - lo) / (hi - lo), true, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
