package models

import "github.com/pzaman/portfolio-backend-go/internal/risk"

// TimeFilter selects the bucketing of GET /api/v1/accidents/time.
type TimeFilter struct {
	Dimension string `form:"dimension"` // month_year, month, weekday, hour
	Year      int    `form:"year"`      // 0 = all years
}

// LocationFilter selects the bucketing of GET /api/v1/accidents/location.
type LocationFilter struct {
	Dimension string `form:"dimension"` // department, area, lighting, intersection
	Limit     int    `form:"limit"`     // top N departments
	Year      int    `form:"year"`
}

// CrosstabFilter describes a two-way table over the accident data.
type CrosstabFilter struct {
	Row       string `form:"row"`
	Col       string `form:"col"`
	Normalize string `form:"normalize"` // none, index, columns, all
	Year      int    `form:"year"`
}

// CellFilter selects the s2 level of a heat map.
type CellFilter struct {
	Level int `form:"level"` // 1-20
	Limit int `form:"limit"`
}

// HistogramFilter describes a taxi-trip histogram.
type HistogramFilter struct {
	Column string `form:"column"`
	Bins   int    `form:"bins"`
}

// ScatterFilter describes a sampled taxi-trip scatter plot.
type ScatterFilter struct {
	X     string `form:"x"`
	Y     string `form:"y"`
	Limit int    `form:"limit"`
}

// RiskQueryParams is the query-string form of risk.Query.
type RiskQueryParams struct {
	Hour        string `form:"hour"`
	Gender      string `form:"gender"`
	Department  string `form:"department"`
	UrbanRural  string `form:"urban_rural"`
	Weather     string `form:"weather"`
	AgeGroup    string `form:"age_group"`
	TripPurpose string `form:"trip_purpose"`
}

// Query converts the parameters. Empty values select Any.
func (p RiskQueryParams) Query() risk.Query {
	return risk.Query{
		Hour:        risk.ParseSelection(p.Hour),
		Gender:      risk.ParseSelection(p.Gender),
		Department:  risk.ParseSelection(p.Department),
		UrbanRural:  risk.ParseSelection(p.UrbanRural),
		Weather:     risk.ParseSelection(p.Weather),
		AgeGroup:    risk.ParseSelection(p.AgeGroup),
		TripPurpose: risk.ParseSelection(p.TripPurpose),
	}
}
