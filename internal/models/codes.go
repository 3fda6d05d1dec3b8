package models

// Label vocabularies for the coded columns of the road-accident files. Codes absent
// from a map have no label and are left out of labelled breakdowns.
var (
	WeatherLabels = map[int]string{
		1: "Normal",
		2: "Light Rain",
		3: "Heavy Rain",
		4: "Snow/Hail",
		5: "Fog/Smoke",
		6: "Strong Wind/Storm",
		7: "Dazzling",
		8: "Cloudy",
		9: "Other",
	}

	SeverityLabels = map[int]string{
		1: "Unharmed",
		2: "Killed",
		3: "Hospitalized",
		4: "Light Injury",
	}

	CollisionLabels = map[int]string{
		1: "Two vehicles - head-on",
		2: "Two vehicles - rear-end",
		3: "Two vehicles - side impact",
		4: "Chain collision (3+ vehicles)",
		5: "Multiple collisions (3+ vehicles)",
		6: "Other collision",
		7: "No collision",
	}

	TripPurposeLabels = map[int]string{
		1: "Home to work",
		2: "Home to school",
		3: "Shopping",
		4: "Professional",
		5: "Leisure",
		6: "Other",
		7: "Unknown",
	}

	GenderLabels = map[int]string{
		1: "Male",
		2: "Female",
	}

	AreaLabels = map[int]string{
		1: "Rural",
		2: "Urban",
	}

	LightingLabels = map[int]string{
		1: "Daylight",
		2: "Dusk or dawn",
		3: "Night without public lighting",
		4: "Night with public lighting not lit",
		5: "Night with public lighting lit",
	}

	IntersectionLabels = map[int]string{
		1: "No Intersection",
		2: "X Intersection",
		3: "T Intersection",
		4: "Y Intersection",
		5: "Intersection with more than 4 branches",
		6: "Roundabout",
		7: "Square",
		8: "Railway crossing",
		9: "Other Intersection",
	}

	SeatLabels = map[int]string{
		1: "Driver",
		2: "Front Passenger",
		3: "Rear Left",
		4: "Rear Center",
		5: "Rear Right",
		6: "Middle Left",
		7: "Middle Right",
		8: "Other Position",
		9: "Unspecified",
	}

	// Weekdays is indexed Monday = 0.
	Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// OrderedLabels returns the labels of m sorted by code.
func OrderedLabels(m map[int]string) []string {
	out := make([]string, 0, len(m))
	for code := 0; len(out) < len(m) && code < 100; code++ {
		if l, ok := m[code]; ok {
			out = append(out, l)
		}
	}
	return out
}

// AgeGroups are the right-inclusive age brackets used by the risk calculator.
var AgeGroups = []struct {
	Label string
	Upper int // inclusive
}{
	{"0-14", 14},
	{"15-17", 17},
	{"18-24", 24},
	{"25-34", 34},
	{"35-44", 44},
	{"45-54", 54},
	{"55-64", 64},
	{"65-74", 74},
	{"75+", 100},
}

// AgeGroupLabels lists the bracket labels in order.
func AgeGroupLabels() []string {
	labels := make([]string, len(AgeGroups))
	for i, g := range AgeGroups {
		labels[i] = g.Label
	}
	return labels
}

// AgeGroup returns the bracket of age. Ages outside (0, 100] have none.
func AgeGroup(age int) (string, bool) {
	if age <= 0 {
		return "", false
	}
	for _, g := range AgeGroups {
		if age <= g.Upper {
			return g.Label, true
		}
	}
	return "", false
}
