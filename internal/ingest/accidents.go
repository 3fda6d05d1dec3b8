package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

var characteristicColumns = columns{
	"num_acc":      {"num_acc", "accident_id"},
	"year":         {"an", "annee", "year"},
	"month":        {"mois", "month"},
	"day":          {"jour", "day"},
	"hrmn":         {"hrmn", "time"},
	"lighting":     {"lum", "lighting"},
	"area_type":    {"agg", "area_type"},
	"intersection": {"int", "intersection"},
	"weather":      {"atm", "weather"},
	"collision":    {"col", "collision"},
	"department":   {"dep", "department"},
	"latitude":     {"lat", "latitude"},
	"longitude":    {"long", "lng", "longitude"},
}

var userColumns = columns{
	"num_acc":      {"num_acc", "accident_id"},
	"seat":         {"place", "seat"},
	"category":     {"catu", "category"},
	"severity":     {"grav", "severity"},
	"gender":       {"sexe", "gender"},
	"trip_purpose": {"trajet", "trip_purpose"},
	"birth_year":   {"an_nais", "birth_year"},
	"year":         {"annee", "an", "year"},
}

// ParseHour extracts the hour from an "hrmn" value: the part before ':' for
// "HH:MM", or the leading digits of a compact "HHMM". Hours outside 0-23 are
// reported as absent.
func ParseHour(hrmn string) (int, bool) {
	v := strings.TrimSpace(hrmn)
	if v == "" {
		return 0, false
	}

	var h int
	var err error
	if before, _, found := strings.Cut(v, ":"); found {
		h, err = strconv.Atoi(strings.TrimSpace(before))
	} else {
		var n int
		n, err = strconv.Atoi(v)
		h = n
		if len(v) >= 3 {
			h = n / 100
		}
	}
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func parseCharacteristic(r record) (models.AccidentCharacteristic, error) {
	c := models.AccidentCharacteristic{
		NumAcc:     r.get("num_acc"),
		TimeHHMM:   r.get("hrmn"),
		Department: strings.ToUpper(r.get("department")),
	}
	if c.NumAcc == "" {
		return c, fmt.Errorf("empty num_acc")
	}

	ints := []struct {
		field string
		dst   **int
	}{
		{"year", &c.Year},
		{"month", &c.Month},
		{"day", &c.Day},
		{"lighting", &c.Lighting},
		{"area_type", &c.AreaType},
		{"intersection", &c.Intersection},
		{"weather", &c.Weather},
		{"collision", &c.Collision},
	}
	for _, f := range ints {
		v, err := r.intPtr(f.field)
		if err != nil {
			return c, err
		}
		*f.dst = v
	}
	if c.Year != nil && *c.Year < 100 {
		y := *c.Year + 2000
		c.Year = &y
	}
	if h, ok := ParseHour(c.TimeHHMM); ok {
		c.Hour = &h
	}

	var err error
	if c.Latitude, err = r.floatPtr("latitude"); err != nil {
		return c, err
	}
	if c.Longitude, err = r.floatPtr("longitude"); err != nil {
		return c, err
	}
	return c, nil
}

func parseUser(r record) (models.AccidentUser, error) {
	u := models.AccidentUser{NumAcc: r.get("num_acc")}
	if u.NumAcc == "" {
		return u, fmt.Errorf("empty num_acc")
	}

	ints := []struct {
		field string
		dst   **int
	}{
		{"seat", &u.Seat},
		{"category", &u.Category},
		{"severity", &u.Severity},
		{"gender", &u.Gender},
		{"trip_purpose", &u.TripPurpose},
		{"birth_year", &u.BirthYear},
		{"year", &u.Year},
	}
	for _, f := range ints {
		v, err := r.intPtr(f.field)
		if err != nil {
			return u, err
		}
		*f.dst = v
	}
	return u, nil
}
