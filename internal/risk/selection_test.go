package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		raw      string
		wantAny  bool
		wantText string
	}{
		{raw: "", wantAny: true, wantText: "Any"},
		{raw: "Any", wantAny: true, wantText: "Any"},
		{raw: " any ", wantAny: true, wantText: "Any"},
		{raw: "ANY", wantAny: true, wantText: "Any"},
		{raw: "Male", wantText: "Male"},
		{raw: " 17:00 ", wantText: "17:00"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sel := ParseSelection(tt.raw)
			assert.Equal(t, tt.wantAny, sel.IsAny())
			assert.Equal(t, tt.wantText, sel.String())
		})
	}
}

func TestBucketKey(t *testing.T) {
	tests := []struct {
		attr  Attribute
		value string
		want  string
	}{
		{AttrHour, "17:00", "17"},
		{AttrHour, "07", "7"},
		{AttrHour, "0:00", "0"},
		{AttrHour, "noon", "noon"},
		{AttrGender, "Male", "1"},
		{AttrGender, "female", "2"},
		{AttrGender, "Other", "Other"},
		{AttrUrbanRural, "Urban", "2"},
		{AttrUrbanRural, "Rural", "1"},
		{AttrDepartment, " 75 ", "75"},
		{AttrDepartment, "2a", "2A"},
		{AttrWeather, "Light Rain", "Light Rain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketKey(tt.attr, tt.value), "%s=%q", tt.attr, tt.value)
	}
}

func TestBucketLabelRoundTrip(t *testing.T) {
	for _, v := range []string{"Male", "Female"} {
		assert.Equal(t, v, BucketLabel(AttrGender, BucketKey(AttrGender, v)))
	}
	for _, v := range []string{"Urban", "Rural"} {
		assert.Equal(t, v, BucketLabel(AttrUrbanRural, BucketKey(AttrUrbanRural, v)))
	}
	assert.Equal(t, "17:00", BucketLabel(AttrHour, BucketKey(AttrHour, "17:00")))
}

func TestQueryJSON(t *testing.T) {
	var q Query
	require.NoError(t, json.Unmarshal([]byte(`{"hour":"17:00","gender":"Any","weather":"Fog/Smoke"}`), &q))

	v, ok := q.Hour.Value()
	assert.True(t, ok)
	assert.Equal(t, "17:00", v)
	assert.True(t, q.Gender.IsAny())
	assert.True(t, q.Department.IsAny())
	assert.Equal(t, "Fog/Smoke", q.Selection(AttrWeather).String())

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"department":"Any"`)
}

func TestParseAttribute(t *testing.T) {
	a, err := ParseAttribute("urban-rural")
	require.NoError(t, err)
	assert.Equal(t, AttrUrbanRural, a)

	a, err = ParseAttribute("Trip_Purpose")
	require.NoError(t, err)
	assert.Equal(t, AttrTripPurpose, a)

	_, err = ParseAttribute("speed")
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestQueryJSONAcceptsNumbers(t *testing.T) {
	var q Query
	require.NoError(t, json.Unmarshal([]byte(`{"hour":17,"department":75,"gender":null,"weather":"any"}`), &q))

	v, ok := q.Hour.Value()
	assert.True(t, ok)
	assert.Equal(t, "17", v)
	assert.Equal(t, "75", q.Department.String())
	assert.True(t, q.Gender.IsAny())
	assert.True(t, q.Weather.IsAny())

	assert.Error(t, json.Unmarshal([]byte(`{"hour":true}`), &q))
	assert.Error(t, json.Unmarshal([]byte(`{"hour":{"h":17}}`), &q))
}

func TestLowercaseDepartmentMatches(t *testing.T) {
	s, err := NewScorer(DefaultWeights())
	require.NoError(t, err)
	nf, err := Normalize(FrequencyTable{"13": 40, "75": 90, "2A": 10})
	require.NoError(t, err)

	f := s.ScoreFactor(AttrDepartment, Specific("2a"), nf)
	assert.Equal(t, BasisMatched, f.Basis)
	assert.Equal(t, "2A", f.Bucket)
	assert.Equal(t, 0.0, f.Score)
}
