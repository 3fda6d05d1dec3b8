package risk

import (
	"fmt"
	"math"
)

const weightSumTolerance = 0.001

// Weights sets how much each factor contributes to the total score.
type Weights struct {
	Hour        float64 `yaml:"hour" json:"hour"`
	Gender      float64 `yaml:"gender" json:"gender"`
	Department  float64 `yaml:"department" json:"department"`
	UrbanRural  float64 `yaml:"urban_rural" json:"urban_rural"`
	Weather     float64 `yaml:"weather" json:"weather"`
	AgeGroup    float64 `yaml:"age_group" json:"age_group"`
	TripPurpose float64 `yaml:"trip_purpose" json:"trip_purpose"`
}

// DefaultWeights returns the calculator's weighting: 0.15 for each situational
// factor and 0.10 for trip purpose.
func DefaultWeights() Weights {
	return Weights{
		Hour:        0.15,
		Gender:      0.15,
		Department:  0.15,
		UrbanRural:  0.15,
		Weather:     0.15,
		AgeGroup:    0.15,
		TripPurpose: 0.10,
	}
}

// For returns the weight of a.
func (w Weights) For(a Attribute) float64 {
	switch a {
	case AttrHour:
		return w.Hour
	case AttrGender:
		return w.Gender
	case AttrDepartment:
		return w.Department
	case AttrUrbanRural:
		return w.UrbanRural
	case AttrWeather:
		return w.Weather
	case AttrAgeGroup:
		return w.AgeGroup
	case AttrTripPurpose:
		return w.TripPurpose
	}
	return 0
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, a := range Attributes {
		sum += w.For(a)
	}
	return sum
}

// Validate checks that no weight is negative and that they sum to 1, which keeps
// the total score inside [0, 1].
func (w Weights) Validate() error {
	for _, a := range Attributes {
		if w.For(a) < 0 {
			return fmt.Errorf("negative weight for %s: %f", a, w.For(a))
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}
