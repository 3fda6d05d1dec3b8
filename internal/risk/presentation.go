package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is the severity band a score is shown in.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Color returns the display color conventionally used for the tier.
func (t Tier) Color() string {
	switch t {
	case TierLow:
		return "green"
	case TierMedium:
		return "orange"
	default:
		return "red"
	}
}

// Thresholds are percentage boundaries between tiers. A percentage below Medium is
// low, below High is medium, anything else is high.
type Thresholds struct {
	Medium float64 `yaml:"medium" json:"medium"`
	High   float64 `yaml:"high" json:"high"`
}

// DefaultThresholds returns the 33% / 55% bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 33, High: 55}
}

// Validate checks the bands are ordered and inside [0, 100].
func (t Thresholds) Validate() error {
	if t.Medium < 0 || t.High > 100 || t.Medium > t.High {
		return fmt.Errorf("invalid thresholds: medium=%v high=%v", t.Medium, t.High)
	}
	return nil
}

// Display is a score prepared for a presentation layer.
type Display struct {
	Percent float64 `json:"percent"`
	Tier    Tier    `json:"tier"`
	Color   string  `json:"color"`
}

// Present converts a [0, 1] score to a percentage rounded half-to-even to one
// decimal and assigns its tier from the rounded value.
func (t Thresholds) Present(score float64) Display {
	pct := decimal.NewFromFloat(score).Mul(decimal.NewFromInt(100)).RoundBank(1)
	p := pct.InexactFloat64()

	tier := TierHigh
	switch {
	case p < t.Medium:
		tier = TierLow
	case p < t.High:
		tier = TierMedium
	}
	return Display{Percent: p, Tier: tier, Color: tier.Color()}
}
