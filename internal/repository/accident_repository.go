package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/risk"
)

// ErrUnknownDimension is returned for a grouping the repository cannot express.
var ErrUnknownDimension = errors.New("unknown dimension")

// AccidentRepository reads the road-accident tables. It implements
// risk.HistoricalData.
type AccidentRepository struct {
	db            *sql.DB
	referenceYear int
}

// NewAccidentRepository creates a repository computing ages against
// referenceYear, or against the current year when referenceYear is 0.
func NewAccidentRepository(db *sql.DB, referenceYear int) *AccidentRepository {
	return &AccidentRepository{db: db, referenceYear: referenceYear}
}

func (r *AccidentRepository) ageYear() int {
	if r.referenceYear > 0 {
		return r.referenceYear
	}
	return time.Now().Year()
}

// FrequencyTable returns accident counts per bucket of a.
func (r *AccidentRepository) FrequencyTable(ctx context.Context, a risk.Attribute) (risk.FrequencyTable, error) {
	switch a {
	case risk.AttrHour:
		return r.countByKey(ctx, `SELECT CAST(hour AS TEXT), COUNT(num_acc)
			FROM accident_characteristics
			WHERE hour IS NOT NULL
			GROUP BY hour`)
	case risk.AttrGender:
		return r.countByKey(ctx, `SELECT CAST(gender AS TEXT), COUNT(num_acc)
			FROM accident_users
			WHERE gender IS NOT NULL
			GROUP BY gender`)
	case risk.AttrDepartment:
		return r.countByKey(ctx, `SELECT department, COUNT(num_acc)
			FROM accident_characteristics
			WHERE department IS NOT NULL AND department != ''
			GROUP BY department`)
	case risk.AttrUrbanRural:
		return r.countByKey(ctx, `SELECT CAST(area_type AS TEXT), COUNT(num_acc)
			FROM accident_characteristics
			WHERE area_type IS NOT NULL
			GROUP BY area_type`)
	case risk.AttrWeather:
		return r.countByLabel(ctx, `SELECT weather, COUNT(num_acc)
			FROM accident_characteristics
			WHERE weather IS NOT NULL
			GROUP BY weather`, models.WeatherLabels)
	case risk.AttrTripPurpose:
		return r.countByLabel(ctx, `SELECT trip_purpose, COUNT(num_acc)
			FROM accident_users
			WHERE trip_purpose IS NOT NULL
			GROUP BY trip_purpose`, models.TripPurposeLabels)
	case risk.AttrAgeGroup:
		return r.ageGroups(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", risk.ErrUnknownAttribute, a)
	}
}

func (r *AccidentRepository) countByKey(ctx context.Context, query string, args ...interface{}) (risk.FrequencyTable, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query frequencies: %w", err)
	}
	defer rows.Close()

	table := make(risk.FrequencyTable)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan frequency: %w", err)
		}
		table[key] += count
	}
	return table, rows.Err()
}

// countByLabel groups by code and keeps only codes with a label.
func (r *AccidentRepository) countByLabel(ctx context.Context, query string, labels map[int]string) (risk.FrequencyTable, error) {
	counts, err := r.countByCode(ctx, query)
	if err != nil {
		return nil, err
	}
	table := make(risk.FrequencyTable)
	for _, c := range counts {
		if label, ok := labels[c.Code]; ok {
			table[label] += c.Count
		}
	}
	return table, nil
}

func (r *AccidentRepository) ageGroups(ctx context.Context) (risk.FrequencyTable, error) {
	counts, err := r.countByCode(ctx, `SELECT birth_year, COUNT(num_acc)
		FROM accident_users
		WHERE birth_year IS NOT NULL
		GROUP BY birth_year`)
	if err != nil {
		return nil, err
	}

	table := make(risk.FrequencyTable, len(models.AgeGroups))
	for _, label := range models.AgeGroupLabels() {
		table[label] = 0
	}
	year := r.ageYear()
	for _, c := range counts {
		if group, ok := models.AgeGroup(year - c.Code); ok {
			table[group] += c.Count
		}
	}
	return table, nil
}

// CodeCount is a count for one integer code.
type CodeCount struct {
	Code  int
	Count int64
}

func (r *AccidentRepository) countByCode(ctx context.Context, query string, args ...interface{}) ([]CodeCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var counts []CodeCount
	for rows.Next() {
		var c CodeCount
		if err := rows.Scan(&c.Code, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetOverview returns headline totals.
func (r *AccidentRepository) GetOverview(ctx context.Context) (*models.AccidentOverview, error) {
	o := &models.AccidentOverview{}
	var first, last sql.NullInt64

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), MIN(year), MAX(year), COUNT(DISTINCT department)
		FROM accident_characteristics`).Scan(&o.Accidents, &first, &last, &o.Departments)
	if err != nil {
		return nil, fmt.Errorf("failed to count accidents: %w", err)
	}
	o.FirstYear = int(first.Int64)
	o.LastYear = int(last.Int64)

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN severity = 2 THEN 1 ELSE 0 END), 0)
		FROM accident_users`).Scan(&o.Users, &o.Killed)
	if err != nil {
		return nil, fmt.Errorf("failed to count accident users: %w", err)
	}
	return o, nil
}

// KeyCount is a count for one grouping key.
type KeyCount struct {
	Key   string
	Count int64
}

var timeExpressions = map[string]string{
	"month_year": "printf('%04d-%02d', year, month)",
	"month":      "CAST(month AS TEXT)",
	// strftime %w counts from Sunday; shift so Monday is 0
	"weekday": "CAST((CAST(strftime('%w', printf('%04d-%02d-%02d', year, month, day)) AS INTEGER) + 6) % 7 AS TEXT)",
	"hour":    "CAST(hour AS TEXT)",
}

var timeRequired = map[string]string{
	"month_year": "year IS NOT NULL AND month IS NOT NULL",
	"month":      "month IS NOT NULL",
	"weekday":    "year IS NOT NULL AND month IS NOT NULL AND day IS NOT NULL",
	"hour":       "hour IS NOT NULL",
}

// CountByTime groups accidents by a time dimension, optionally for one year.
func (r *AccidentRepository) CountByTime(ctx context.Context, dimension string, year int) ([]KeyCount, error) {
	expr, ok := timeExpressions[dimension]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}
	query := `SELECT ` + expr + ` AS k, COUNT(*) FROM accident_characteristics WHERE ` + timeRequired[dimension]
	var args []interface{}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	query += ` GROUP BY k`
	return r.keyCounts(ctx, query, args...)
}

var locationColumns = map[string]string{
	"department":   "department",
	"area":         "area_type",
	"lighting":     "lighting",
	"intersection": "intersection",
}

// CountByLocation groups accidents by a location dimension, busiest first.
// limit <= 0 returns every group.
func (r *AccidentRepository) CountByLocation(ctx context.Context, dimension string, year, limit int) ([]KeyCount, error) {
	col, ok := locationColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}
	query := `SELECT CAST(` + col + ` AS TEXT) AS k, COUNT(*) AS n FROM accident_characteristics
		WHERE ` + col + ` IS NOT NULL AND CAST(` + col + ` AS TEXT) != ''`
	var args []interface{}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	query += ` GROUP BY k ORDER BY n DESC, k`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.keyCounts(ctx, query, args...)
}

func (r *AccidentRepository) keyCounts(ctx context.Context, query string, args ...interface{}) ([]KeyCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var counts []KeyCount
	for rows.Next() {
		var kc KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}

var crosstabColumns = map[string]string{
	"weather":      "c.weather",
	"collision":    "c.collision",
	"year":         "c.year",
	"severity":     "u.severity",
	"gender":       "u.gender",
	"trip_purpose": "u.trip_purpose",
	"position":     "u.seat",
}

// PairCount counts users for one (row, column) code pair.
type PairCount struct {
	Row   int
	Col   int
	Count int64
}

// CountPairs counts accident users per pair of codes over the users joined to
// their accident.
func (r *AccidentRepository) CountPairs(ctx context.Context, row, col string, year int) ([]PairCount, error) {
	rowExpr, ok := crosstabColumns[row]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, row)
	}
	colExpr, ok := crosstabColumns[col]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, col)
	}

	query := `SELECT ` + rowExpr + `, ` + colExpr + `, COUNT(*)
		FROM accident_users u
		LEFT JOIN accident_characteristics c ON c.num_acc = u.num_acc
		WHERE ` + rowExpr + ` IS NOT NULL AND ` + colExpr + ` IS NOT NULL`
	var args []interface{}
	if year > 0 {
		query += ` AND c.year = ?`
		args = append(args, year)
	}
	query += ` GROUP BY 1, 2`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crosstab: %w", err)
	}
	defer rows.Close()

	var pairs []PairCount
	for rows.Next() {
		var p PairCount
		if err := rows.Scan(&p.Row, &p.Col, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan crosstab cell: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// EachLocation calls fn for every accident with coordinates. fn must not query
// the database.
func (r *AccidentRepository) EachLocation(ctx context.Context, year int, fn func(lat, lng float64)) error {
	query := `SELECT latitude, longitude FROM accident_characteristics
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL`
	var args []interface{}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lat, lng float64
		if err := rows.Scan(&lat, &lng); err != nil {
			return fmt.Errorf("failed to scan location: %w", err)
		}
		fn(lat, lng)
	}
	return rows.Err()
}

// Departments lists department codes by accident count, for the calculator.
func (r *AccidentRepository) Departments(ctx context.Context) ([]string, error) {
	counts, err := r.CountByLocation(ctx, "department", 0, 0)
	if err != nil {
		return nil, err
	}
	deps := make([]string, len(counts))
	for i, c := range counts {
		deps[i] = c.Key
	}
	return deps, nil
}
