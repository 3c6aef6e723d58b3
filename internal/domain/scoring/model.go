package scoring

import "strconv"

// Tier is the risk classification derived from a visit's score.
type Tier string

const (
	TierGreen Tier = "green"
	TierAmber Tier = "amber"
	TierRed   Tier = "red"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierGreen || t == TierAmber || t == TierRed
}

// Alerting reports whether the tier warrants an alert.
func (t Tier) Alerting() bool {
	return t == TierAmber || t == TierRed
}

// Vitals is a snapshot of the optional numeric readings taken during one
// visit. A nil field means "not measured" and is never scored.
type Vitals struct {
	Temperature      *float64 `db:"temperature" json:"temperature,omitempty"`
	Pulse            *int     `db:"pulse" json:"pulse,omitempty"`
	SystolicBP       *int     `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int     `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	OxygenSaturation *int     `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	RespiratoryRate  *int     `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
}

// Result is the outcome of scoring one observation.
type Result struct {
	Score   int      `json:"score"`
	Tier    Tier     `json:"tier"`
	Reasons []string `json:"reasons"`
}

// formatTemp renders a temperature without trailing zeros (38.5, 38).
func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
