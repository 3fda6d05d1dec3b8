package risk

import (
	"context"
	"fmt"
)

// DefaultNeutralScore is returned for an attribute whose buckets all share the same
// frequency, where min-max scaling is undefined.
const DefaultNeutralScore = 0.5

// HistoricalData supplies one frequency table per attribute.
type HistoricalData interface {
	FrequencyTable(ctx context.Context, a Attribute) (FrequencyTable, error)
}

// Tables is an in-memory HistoricalData.
type Tables map[Attribute]FrequencyTable

// FrequencyTable implements HistoricalData.
func (t Tables) FrequencyTable(_ context.Context, a Attribute) (FrequencyTable, error) {
	table, ok := t[a]
	if !ok || len(table) == 0 {
		return nil, ErrInsufficientData
	}
	return table, nil
}

// Basis records which rule produced a factor score.
type Basis string

const (
	BasisMatched    Basis = "matched"
	BasisAny        Basis = "any"
	BasisNotFound   Basis = "not_found"
	BasisDegenerate Basis = "degenerate"
)

// Factor is the score of a single attribute.
type Factor struct {
	Attribute Attribute `json:"attribute"`
	Selection Selection `json:"selection"`
	Bucket    string    `json:"bucket,omitempty"`
	Score     float64   `json:"score"`
	Weight    float64   `json:"weight"`
	Basis     Basis     `json:"basis"`
}

// Result holds the seven factor scores, in Attributes order, and their weighted total.
type Result struct {
	Factors []Factor `json:"factors"`
	Total   float64  `json:"total"`
}

// Score returns the factor score of a, or 0 when a is not part of the result.
func (r *Result) Score(a Attribute) float64 {
	for _, f := range r.Factors {
		if f.Attribute == a {
			return f.Score
		}
	}
	return 0
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithNeutralScore overrides the score used for degenerate distributions.
func WithNeutralScore(v float64) Option {
	return func(s *Scorer) { s.neutral = v }
}

// Scorer combines per-attribute scores into a total. It holds no per-request
// state and is safe for concurrent use.
type Scorer struct {
	weights Weights
	neutral float64
}

// NewScorer validates weights and returns a Scorer.
func NewScorer(weights Weights, opts ...Option) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid risk weights: %w", err)
	}
	s := &Scorer{weights: weights, neutral: DefaultNeutralScore}
	for _, opt := range opts {
		opt(s)
	}
	if s.neutral < 0 || s.neutral > 1 {
		return nil, fmt.Errorf("neutral score %f outside [0, 1]", s.neutral)
	}
	return s, nil
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score rebuilds the normalized distribution of every attribute from data and
// scores q against it.
func (s *Scorer) Score(ctx context.Context, q Query, data HistoricalData) (*Result, error) {
	result := &Result{Factors: make([]Factor, 0, len(Attributes))}
	for _, a := range Attributes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := data.FrequencyTable(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("load %s frequencies: %w", a, err)
		}
		nf, err := Normalize(table)
		if err != nil {
			return nil, fmt.Errorf("normalize %s frequencies: %w", a, err)
		}
		f := s.ScoreFactor(a, q.Selection(a), nf)
		result.Factors = append(result.Factors, f)
		result.Total += f.Weight * f.Score
	}
	return result, nil
}

// ScoreFactor scores one attribute against its normalized distribution.
func (s *Scorer) ScoreFactor(a Attribute, sel Selection, nf NormalizedFrequency) Factor {
	f := Factor{
		Attribute: a,
		Selection: sel,
		Weight:    s.weights.For(a),
	}

	value, ok := sel.Value()
	if !ok {
		f.Score = nf.Mean()
		f.Basis = BasisAny
		return f
	}

	f.Bucket = BucketKey(a, value)
	score, found, degenerate := nf.Scaled(f.Bucket, s.neutral)
	switch {
	case !found:
		f.Score = nf.Mean()
		f.Basis = BasisNotFound
	case degenerate:
		f.Score = score
		f.Basis = BasisDegenerate
	default:
		f.Score = score
		f.Basis = BasisMatched
	}
	return f
}
