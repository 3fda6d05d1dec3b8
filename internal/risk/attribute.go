// Package risk scores how exposed a driver is to a road accident given a handful of
// situational attributes. Each attribute is scored from the historical share of
// accidents in the selected bucket, min-max scaled against the least and most
// affected buckets, and the factor scores are combined with fixed weights.
package risk

import (
	"fmt"
	"strings"
)

// Attribute identifies one scored dimension of a query.
type Attribute string

const (
	AttrHour        Attribute = "hour"
	AttrGender      Attribute = "gender"
	AttrDepartment  Attribute = "department"
	AttrUrbanRural  Attribute = "urban_rural"
	AttrWeather     Attribute = "weather"
	AttrAgeGroup    Attribute = "age_group"
	AttrTripPurpose Attribute = "trip_purpose"
)

// Attributes lists every scored attribute in result order.
var Attributes = []Attribute{
	AttrHour,
	AttrGender,
	AttrDepartment,
	AttrUrbanRural,
	AttrWeather,
	AttrAgeGroup,
	AttrTripPurpose,
}

// Label returns the human name used by the calculator.
func (a Attribute) Label() string {
	switch a {
	case AttrHour:
		return "Hour"
	case AttrGender:
		return "Gender"
	case AttrDepartment:
		return "Department"
	case AttrUrbanRural:
		return "Urban/Rural"
	case AttrWeather:
		return "Weather"
	case AttrAgeGroup:
		return "Age"
	case AttrTripPurpose:
		return "Trip Purpose"
	default:
		return string(a)
	}
}

// ParseAttribute accepts the attribute key, with '-' allowed in place of '_'.
func ParseAttribute(s string) (Attribute, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, a := range Attributes {
		if string(a) == key {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, s)
}
