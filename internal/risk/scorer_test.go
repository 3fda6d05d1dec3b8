package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() Tables {
	return Tables{
		AttrHour:        {"3": 10, "12": 50, "17": 100, "18": 80},
		AttrGender:      {"-1": 5, "1": 70, "2": 25},
		AttrDepartment:  {"13": 40, "75": 90, "2A": 10},
		AttrUrbanRural:  {"1": 35, "2": 65},
		AttrWeather:     {"Normal": 80, "Light Rain": 12, "Fog/Smoke": 3, "Snow/Hail": 5},
		AttrAgeGroup:    {"0-14": 0, "18-24": 30, "25-34": 45, "75+": 8},
		AttrTripPurpose: {"Leisure": 50, "Home to work": 30, "Professional": 20},
	}
}

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights())
	require.NoError(t, err)
	return s
}

func TestNormalizeSumsToOne(t *testing.T) {
	for attr, table := range sampleTables() {
		nf, err := Normalize(table)
		require.NoError(t, err, attr)

		var sum float64
		for _, v := range nf {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "attribute %s", attr)
	}
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(FrequencyTable{})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Normalize(FrequencyTable{"a": 0, "b": 0})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Normalize(FrequencyTable{"a": 3, "b": -1})
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestExtremeBucketsScaleToZeroAndOne(t *testing.T) {
	for attr, table := range sampleTables() {
		nf, err := Normalize(table)
		require.NoError(t, err)
		lo, hi := nf.MinMax()

		for _, bucket := range nf.Buckets() {
			score, found, degenerate := nf.Scaled(bucket, DefaultNeutralScore)
			require.True(t, found)
			require.False(t, degenerate)
			switch nf[bucket] {
			case lo:
				assert.Equal(t, 0.0, score, "%s/%s", attr, bucket)
			case hi:
				assert.Equal(t, 1.0, score, "%s/%s", attr, bucket)
			default:
				assert.Greater(t, score, 0.0)
				assert.Less(t, score, 1.0)
			}
		}
	}
}

func TestScoreHourExtremes(t *testing.T) {
	s := newTestScorer(t)
	ctx := context.Background()

	peak, err := s.Score(ctx, AnyQuery().With(AttrHour, Specific("17:00")), sampleTables())
	require.NoError(t, err)
	assert.Equal(t, 1.0, peak.Score(AttrHour))

	quiet, err := s.Score(ctx, AnyQuery().With(AttrHour, Specific("3:00")), sampleTables())
	require.NoError(t, err)
	assert.Equal(t, 0.0, quiet.Score(AttrHour))

	noon, err := s.Score(ctx, AnyQuery().With(AttrHour, Specific("12")), sampleTables())
	require.NoError(t, err)
	assert.InDelta(t, 40.0/90.0, noon.Score(AttrHour), 1e-12)
	assert.Equal(t, BasisMatched, noon.Factors[0].Basis)
	assert.Equal(t, "12", noon.Factors[0].Bucket)
}

func TestScoreAllAnyUsesMeans(t *testing.T) {
	s := newTestScorer(t)
	tables := sampleTables()

	result, err := s.Score(context.Background(), AnyQuery(), tables)
	require.NoError(t, err)
	require.Len(t, result.Factors, len(Attributes))

	var want float64
	for i, attr := range Attributes {
		nf, err := Normalize(tables[attr])
		require.NoError(t, err)

		f := result.Factors[i]
		assert.Equal(t, attr, f.Attribute)
		assert.Equal(t, BasisAny, f.Basis)
		assert.Equal(t, nf.Mean(), f.Score)
		assert.InDelta(t, 1.0/float64(len(tables[attr])), f.Score, 1e-12)
		want += DefaultWeights().For(attr) * nf.Mean()
	}
	assert.InDelta(t, want, result.Total, 1e-12)

	explicit := 0.15*result.Score(AttrHour) + 0.15*result.Score(AttrGender) +
		0.15*result.Score(AttrDepartment) + 0.15*result.Score(AttrUrbanRural) +
		0.15*result.Score(AttrWeather) + 0.15*result.Score(AttrAgeGroup) +
		0.10*result.Score(AttrTripPurpose)
	assert.InDelta(t, explicit, result.Total, 1e-12)
}

func TestScoreTotalIsWeightedSumWithinUnitInterval(t *testing.T) {
	s := newTestScorer(t)
	queries := []Query{
		{
			Hour:        Specific("17:00"),
			Gender:      Specific("Male"),
			Department:  Specific("75"),
			UrbanRural:  Specific("Urban"),
			Weather:     Specific("Normal"),
			AgeGroup:    Specific("25-34"),
			TripPurpose: Specific("Leisure"),
		},
		{
			Hour:        Specific("3:00"),
			Gender:      Specific("Female"),
			Department:  Specific("2A"),
			UrbanRural:  Specific("Rural"),
			Weather:     Specific("Fog/Smoke"),
			AgeGroup:    Specific("0-14"),
			TripPurpose: Specific("Professional"),
		},
		{Weather: Specific("Sandstorm"), TripPurpose: Specific("Work")},
	}

	for _, q := range queries {
		result, err := s.Score(context.Background(), q, sampleTables())
		require.NoError(t, err)

		var sum float64
		for _, f := range result.Factors {
			assert.GreaterOrEqual(t, f.Score, 0.0)
			assert.LessOrEqual(t, f.Score, 1.0)
			sum += f.Weight * f.Score
		}
		assert.InDelta(t, sum, result.Total, 1e-12)
		assert.GreaterOrEqual(t, result.Total, 0.0)
		assert.LessOrEqual(t, result.Total, 1.0)
	}
}

func TestScoreMostExposedQueryIsOne(t *testing.T) {
	s := newTestScorer(t)
	q := Query{
		Hour:        Specific("17:00"),
		Gender:      Specific("Male"),
		Department:  Specific("75"),
		UrbanRural:  Specific("Urban"),
		Weather:     Specific("Normal"),
		AgeGroup:    Specific("25-34"),
		TripPurpose: Specific("Leisure"),
	}
	result, err := s.Score(context.Background(), q, sampleTables())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Total, 1e-12)
}

func TestUnseenBucketFallsBackToMean(t *testing.T) {
	s := newTestScorer(t)
	nf, err := Normalize(sampleTables()[AttrTripPurpose])
	require.NoError(t, err)

	f := s.ScoreFactor(AttrTripPurpose, Specific("Work"), nf)
	assert.Equal(t, BasisNotFound, f.Basis)
	assert.Equal(t, nf.Mean(), f.Score)
	assert.Equal(t, "Work", f.Bucket)
}

func TestDegenerateDistributionIsNeutral(t *testing.T) {
	s := newTestScorer(t)
	nf, err := Normalize(FrequencyTable{"1": 20, "2": 20})
	require.NoError(t, err)

	f := s.ScoreFactor(AttrUrbanRural, Specific("Urban"), nf)
	assert.Equal(t, BasisDegenerate, f.Basis)
	assert.Equal(t, DefaultNeutralScore, f.Score)

	single, err := Normalize(FrequencyTable{"75": 4})
	require.NoError(t, err)
	f = s.ScoreFactor(AttrDepartment, Specific("75"), single)
	assert.Equal(t, DefaultNeutralScore, f.Score)

	custom, err := NewScorer(DefaultWeights(), WithNeutralScore(0.25))
	require.NoError(t, err)
	f = custom.ScoreFactor(AttrUrbanRural, Specific("Rural"), nf)
	assert.Equal(t, 0.25, f.Score)
}

func TestScoreMissingTable(t *testing.T) {
	s := newTestScorer(t)
	tables := sampleTables()
	delete(tables, AttrWeather)

	_, err := s.Score(context.Background(), AnyQuery(), tables)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.Contains(t, err.Error(), "weather")
}

func TestScoreHonorsCancellation(t *testing.T) {
	s := newTestScorer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Score(ctx, AnyQuery(), sampleTables())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	w := DefaultWeights()
	w.Hour = 0.5
	_, err := NewScorer(w)
	assert.Error(t, err)

	w = DefaultWeights()
	w.Gender, w.Hour = -0.05, 0.35
	_, err = NewScorer(w)
	assert.Error(t, err)

	_, err = NewScorer(DefaultWeights(), WithNeutralScore(1.5))
	assert.Error(t, err)
}
