package models

import (
	"github.com/pzaman/portfolio-backend-go/internal/risk"
	"github.com/pzaman/portfolio-backend-go/internal/stats"
)

// CategoryCount is one bar of a distribution chart.
type CategoryCount struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Count int64   `json:"count"`
	Share float64 `json:"share"` // percentage of the total
}

// AccidentOverview summarises the loaded accident data.
type AccidentOverview struct {
	Accidents   int64 `json:"accidents"`
	Users       int64 `json:"users"`
	FirstYear   int   `json:"first_year"`
	LastYear    int   `json:"last_year"`
	Departments int64 `json:"departments"`
	Killed      int64 `json:"killed"`
}

// CellCount is an s2 cell of a location heat map.
type CellCount struct {
	CellID    string  `json:"cell_id"`
	Level     int     `json:"level"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
	Value     float64 `json:"value,omitempty"` // optional per-cell average
}

// TripOverview summarises the cleaned taxi trips.
type TripOverview struct {
	Trips       int64         `json:"trips"`
	Duration    stats.Summary `json:"duration"`
	Distance    stats.Summary `json:"distance"`
	TotalAmount stats.Summary `json:"total_amount"`
	TipRate     float64       `json:"tip_rate"` // percentage of trips with a tip
	FirstPickup string        `json:"first_pickup,omitempty"`
	LastPickup  string        `json:"last_pickup,omitempty"`
}

// HourlyAverage is one hour of the time-of-day charts.
type HourlyAverage struct {
	Hour        int     `json:"hour"`
	Trips       int64   `json:"trips"`
	Duration    float64 `json:"duration"`
	Distance    float64 `json:"distance"`
	TotalAmount float64 `json:"total_amount"`
}

// PassengerBreakdown aggregates trips by passenger count.
type PassengerBreakdown struct {
	PassengerCount int     `json:"passenger_count"`
	Trips          int64   `json:"trips"`
	TipRate        float64 `json:"tip_rate"`
	AvgTip         float64 `json:"avg_tip"`
	AvgTotal       float64 `json:"avg_total"`
}

// ScatterPoint is one sampled (x, y) pair.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RiskFactorView is a factor score ready for display.
type RiskFactorView struct {
	risk.Factor
	Label   string       `json:"label"`
	Display risk.Display `json:"display"`
}

// RiskAssessment is the calculator answer.
type RiskAssessment struct {
	Factors      []RiskFactorView `json:"factors"`
	Total        float64          `json:"total"`
	TotalDisplay risk.Display     `json:"total_display"`
	Cached       bool             `json:"cached"`
}

// RiskOption is one selectable value of an attribute.
type RiskOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RiskOptions lists selectable values per attribute, "Any" first.
type RiskOptions map[risk.Attribute][]RiskOption

// BucketScore describes one bucket of an attribute's distribution.
type BucketScore struct {
	Bucket string  `json:"bucket"`
	Label  string  `json:"label"`
	Count  int64   `json:"count"`
	Share  float64 `json:"share"`
	Score  float64 `json:"score"`
}

// RiskDistribution is the historical distribution behind one factor.
type RiskDistribution struct {
	Attribute risk.Attribute `json:"attribute"`
	Total     int64          `json:"total"`
	Mean      float64        `json:"mean"`
	Buckets   []BucketScore  `json:"buckets"`
}
