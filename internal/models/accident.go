package models

// AccidentCharacteristic is one road accident as recorded in the annual
// "caractéristiques" file. Coded columns keep the survey codes; see codes.go for labels.
type AccidentCharacteristic struct {
	NumAcc string `json:"num_acc" db:"num_acc"`

	// Time
	Year     *int   `json:"year,omitempty" db:"year"`
	Month    *int   `json:"month,omitempty" db:"month"`
	Day      *int   `json:"day,omitempty" db:"day"`
	TimeHHMM string `json:"time_hhmm,omitempty" db:"time_hhmm"` // raw "hrmn"
	Hour     *int   `json:"hour,omitempty" db:"hour"`           // derived from TimeHHMM

	// Conditions
	Lighting     *int `json:"lighting,omitempty" db:"lighting"`         // lum
	AreaType     *int `json:"area_type,omitempty" db:"area_type"`       // agg: 1 rural, 2 urban
	Intersection *int `json:"intersection,omitempty" db:"intersection"` // int
	Weather      *int `json:"weather,omitempty" db:"weather"`           // atm
	Collision    *int `json:"collision,omitempty" db:"collision"`       // col

	// Location
	Department string   `json:"department,omitempty" db:"department"` // dep (INSEE)
	Latitude   *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude  *float64 `json:"longitude,omitempty" db:"longitude"`
}

// AccidentUser is one person involved in an accident ("usagers" file).
type AccidentUser struct {
	ID          int64  `json:"id" db:"id"`
	NumAcc      string `json:"num_acc" db:"num_acc"`
	Seat        *int   `json:"seat,omitempty" db:"seat"`                 // place
	Category    *int   `json:"category,omitempty" db:"category"`         // catu: 1 driver, 2 passenger, 3 pedestrian
	Severity    *int   `json:"severity,omitempty" db:"severity"`         // grav
	Gender      *int   `json:"gender,omitempty" db:"gender"`             // sexe
	TripPurpose *int   `json:"trip_purpose,omitempty" db:"trip_purpose"` // trajet
	BirthYear   *int   `json:"birth_year,omitempty" db:"birth_year"`     // an_nais
	Year        *int   `json:"year,omitempty" db:"year"`                 // annee
}

// IngestBatch records one CSV import.
type IngestBatch struct {
	ID           string `json:"id" db:"id"`
	Dataset      string `json:"dataset" db:"dataset"`
	Source       string `json:"source" db:"source"`
	RowsRead     int    `json:"rows_read" db:"rows_read"`
	RowsInserted int    `json:"rows_inserted" db:"rows_inserted"`
	RowsSkipped  int    `json:"rows_skipped" db:"rows_skipped"`
	CreatedAt    string `json:"created_at" db:"created_at"`
}

// Dataset names accepted by the ingest pipeline.
const (
	DatasetAccidentCharacteristics = "accident-characteristics"
	DatasetAccidentUsers           = "accident-users"
	DatasetTaxiTrips               = "taxi-trips"
)

// Datasets lists every dataset name.
var Datasets = []string{DatasetAccidentCharacteristics, DatasetAccidentUsers, DatasetTaxiTrips}
