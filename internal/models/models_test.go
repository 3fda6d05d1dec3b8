package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeGroupBoundariesAreRightInclusive(t *testing.T) {
	tests := []struct {
		age  int
		want string
		ok   bool
	}{
		{0, "", false},
		{1, "0-14", true},
		{14, "0-14", true},
		{15, "15-17", true},
		{17, "15-17", true},
		{18, "18-24", true},
		{34, "25-34", true},
		{35, "35-44", true},
		{74, "65-74", true},
		{75, "75+", true},
		{100, "75+", true},
		{101, "", false},
		{-3, "", false},
	}
	for _, tt := range tests {
		got, ok := AgeGroup(tt.age)
		assert.Equal(t, tt.ok, ok, "age %d", tt.age)
		assert.Equal(t, tt.want, got, "age %d", tt.age)
	}
	assert.Len(t, AgeGroupLabels(), 9)
}

func TestOrderedLabels(t *testing.T) {
	assert.Equal(t, []string{"Rural", "Urban"}, OrderedLabels(AreaLabels))
	assert.Equal(t, "Normal", OrderedLabels(WeatherLabels)[0])
	assert.Len(t, OrderedLabels(TripPurposeLabels), 7)
}

func newTrip(minutes float64) TaxiTrip {
	start := time.Date(2023, 1, 5, 17, 30, 0, 0, time.UTC)
	trip := TaxiTrip{
		PickupAt:       start,
		DropoffAt:      start.Add(time.Duration(minutes * float64(time.Minute))),
		PassengerCount: 1,
		TripDistance:   2.4,
		FareAmount:     14.2,
		TotalAmount:    18.5,
	}
	trip.Derive()
	return trip
}

func TestTaxiTripDerive(t *testing.T) {
	trip := newTrip(25)
	assert.Equal(t, 17, trip.Hour)
	assert.InDelta(t, 25.0, trip.DurationMinutes, 1e-9)
}

func TestTaxiTripClean(t *testing.T) {
	ok := newTrip(25)
	assert.True(t, ok.Clean())

	longest := newTrip(MaxTripMinutes)
	assert.True(t, longest.Clean())
	justOver := newTrip(MaxTripMinutes + 1)
	assert.False(t, justOver.Clean())

	shortest := newTrip(MinTripMinutes)
	assert.True(t, shortest.Clean())

	noDistance := newTrip(20)
	noDistance.TripDistance = 0
	assert.False(t, noDistance.Clean())

	tooShort := newTrip(0.5)
	assert.False(t, tooShort.Clean())

	tooLong := newTrip(300)
	assert.False(t, tooLong.Clean())

	noPassenger := newTrip(20)
	noPassenger.PassengerCount = 0
	assert.False(t, noPassenger.Clean())

	freeRide := newTrip(20)
	freeRide.FareAmount = 0
	assert.False(t, freeRide.Clean())

	sentinel := newTrip(20)
	sentinel.TripDistance = 99.9
	assert.False(t, sentinel.Clean())

	overcharged := newTrip(10)
	overcharged.TotalAmount = 120
	assert.False(t, overcharged.Clean())

	longExpensive := newTrip(40)
	longExpensive.TotalAmount = 120
	assert.True(t, longExpensive.Clean())
}

func TestRiskQueryParamsQuery(t *testing.T) {
	q := RiskQueryParams{Hour: "17:00", Gender: "any", Weather: " Light Rain "}.Query()
	v, ok := q.Hour.Value()
	assert.True(t, ok)
	assert.Equal(t, "17:00", v)
	assert.True(t, q.Gender.IsAny())
	assert.True(t, q.Department.IsAny())
	assert.Equal(t, "Light Rain", q.Weather.String())
}
