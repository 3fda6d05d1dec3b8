package risk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Selection is either Any (no preference) or a Specific bucket value.
type Selection struct {
	value    string
	specific bool
}

// Any returns the no-preference selection.
func Any() Selection { return Selection{} }

// Specific returns a selection of one concrete value.
func Specific(value string) Selection {
	return Selection{value: strings.TrimSpace(value), specific: true}
}

// ParseSelection treats an empty string or "any" (any case) as no preference.
func ParseSelection(raw string) Selection {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "any") {
		return Any()
	}
	return Specific(v)
}

// IsAny reports whether the selection expresses no preference.
func (s Selection) IsAny() bool { return !s.specific }

// Value returns the selected value; ok is false for Any.
func (s Selection) Value() (string, bool) { return s.value, s.specific }

func (s Selection) String() string {
	if !s.specific {
		return "Any"
	}
	return s.value
}

// MarshalText implements encoding.TextMarshaler.
func (s Selection) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Selection) UnmarshalText(text []byte) error {
	*s = ParseSelection(string(text))
	return nil
}

// UnmarshalJSON accepts a string, a number (an hour of 17 or department 75) or
// null, which selects Any.
func (s *Selection) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*s = Any()
		return nil
	case len(raw) > 0 && raw[0] == '"':
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*s = ParseSelection(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("selection must be a string or a number: %s", raw)
	}
	*s = ParseSelection(n.String())
	return nil
}

// Query holds one selection per attribute. The zero value selects Any everywhere.
type Query struct {
	Hour        Selection `json:"hour"`
	Gender      Selection `json:"gender"`
	Department  Selection `json:"department"`
	UrbanRural  Selection `json:"urban_rural"`
	Weather     Selection `json:"weather"`
	AgeGroup    Selection `json:"age_group"`
	TripPurpose Selection `json:"trip_purpose"`
}

// AnyQuery returns a query with no preference on every attribute.
func AnyQuery() Query { return Query{} }

// Selection returns the selection for a.
func (q Query) Selection(a Attribute) Selection {
	switch a {
	case AttrHour:
		return q.Hour
	case AttrGender:
		return q.Gender
	case AttrDepartment:
		return q.Department
	case AttrUrbanRural:
		return q.UrbanRural
	case AttrWeather:
		return q.Weather
	case AttrAgeGroup:
		return q.AgeGroup
	case AttrTripPurpose:
		return q.TripPurpose
	}
	return Any()
}

// With returns a copy of q with a set to sel.
func (q Query) With(a Attribute, sel Selection) Query {
	switch a {
	case AttrHour:
		q.Hour = sel
	case AttrGender:
		q.Gender = sel
	case AttrDepartment:
		q.Department = sel
	case AttrUrbanRural:
		q.UrbanRural = sel
	case AttrWeather:
		q.Weather = sel
	case AttrAgeGroup:
		q.AgeGroup = sel
	case AttrTripPurpose:
		q.TripPurpose = sel
	}
	return q
}

// BucketKey maps a user-facing value onto the key used in the attribute's
// frequency table. Hours accept "17:00" or "17". Gender and area type are stored
// under their survey codes, departments upper-cased ("2A").
func BucketKey(a Attribute, value string) string {
	v := strings.TrimSpace(value)
	switch a {
	case AttrHour:
		h, _, _ := strings.Cut(v, ":")
		if n, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
			return strconv.Itoa(n)
		}
	case AttrGender:
		switch strings.ToLower(v) {
		case "male":
			return "1"
		case "female":
			return "2"
		}
	case AttrUrbanRural:
		switch strings.ToLower(v) {
		case "rural":
			return "1"
		case "urban":
			return "2"
		}
	case AttrDepartment:
		return strings.ToUpper(v)
	}
	return v
}

// BucketLabel is the inverse of BucketKey for display purposes.
func BucketLabel(a Attribute, key string) string {
	switch a {
	case AttrHour:
		return key + ":00"
	case AttrGender:
		switch key {
		case "1":
			return "Male"
		case "2":
			return "Female"
		}
	case AttrUrbanRural:
		switch key {
		case "1":
			return "Rural"
		case "2":
			return "Urban"
		}
	}
	return key
}
