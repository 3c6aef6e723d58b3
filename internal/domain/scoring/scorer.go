// Package scoring converts one visit's reported symptoms and vital signs
// into a deterministic risk score and tier.
package scoring

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carewatch/carewatch/internal/domain/catalog"
)

// Clinical thresholds for vital-sign scoring.
const (
	tempHigh  = 38.0
	tempLow   = 36.0
	pulseHigh = 100
	pulseLow  = 50
	spo2Low   = 95
	respHigh  = 20
	respLow   = 12
	sysHigh   = 140
	sysLow    = 90
)

// Tier boundaries: inclusive lower bounds.
const (
	amberThreshold = 3
	redThreshold   = 5
)

// SymptomSource resolves symptom ids to reference entries. Read-only.
type SymptomSource interface {
	SymptomByID(id string) (catalog.Symptom, bool)
}

// Scorer computes risk results. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	symptoms SymptomSource
	logger   zerolog.Logger
}

// NewScorer creates a Scorer backed by the given symptom source.
func NewScorer(symptoms SymptomSource, logger zerolog.Logger) *Scorer {
	return &Scorer{symptoms: symptoms, logger: logger}
}

// Score maps selected symptom ids plus vitals to a score, tier, and ordered
// reason list. Symptoms contribute in the order supplied by the caller, then
// vitals in a fixed order: temperature, pulse, oxygen saturation,
// respiratory rate, blood pressure. Unknown symptom ids are tolerated and
// skipped; they are logged so stale catalog references surface in
// monitoring rather than failing a visit submission.
func (s *Scorer) Score(selectedSymptomIDs []string, vitals Vitals) Result {
	score := 0
	reasons := []string{}

	for _, id := range selectedSymptomIDs {
		sym, ok := s.symptoms.SymptomByID(id)
		if !ok {
			s.logger.Warn().Str("symptom_id", id).Msg("unknown symptom id ignored in scoring")
			continue
		}
		score += sym.Points
		reasons = append(reasons, sym.Label)
	}

	if vitals.Temperature != nil {
		switch t := *vitals.Temperature; {
		case t >= tempHigh:
			score += 2
			reasons = append(reasons, fmt.Sprintf("High temperature (%s°C)", formatTemp(t)))
		case t < tempLow:
			score++
			reasons = append(reasons, fmt.Sprintf("Low temperature (%s°C)", formatTemp(t)))
		}
	}

	if vitals.Pulse != nil {
		if p := *vitals.Pulse; p > pulseHigh || p < pulseLow {
			score++
			reasons = append(reasons, fmt.Sprintf("Abnormal pulse (%d bpm)", p))
		}
	}

	if vitals.OxygenSaturation != nil && *vitals.OxygenSaturation < spo2Low {
		score += 2
		reasons = append(reasons, fmt.Sprintf("Low oxygen saturation (%d%%)", *vitals.OxygenSaturation))
	}

	if vitals.RespiratoryRate != nil {
		if r := *vitals.RespiratoryRate; r > respHigh || r < respLow {
			score++
			reasons = append(reasons, fmt.Sprintf("Abnormal respiratory rate (%d/min)", r))
		}
	}

	// Blood pressure is only evaluated when both readings are present;
	// diastolic alone is never scored.
	if vitals.SystolicBP != nil && vitals.DiastolicBP != nil {
		if sys := *vitals.SystolicBP; sys > sysHigh || sys < sysLow {
			score++
			reasons = append(reasons, fmt.Sprintf("Abnormal blood pressure (%d/%d)", sys, *vitals.DiastolicBP))
		}
	}

	tier := TierGreen
	switch {
	case score >= redThreshold:
		tier = TierRed
	case score >= amberThreshold:
		tier = TierAmber
	}

	return Result{Score: score, Tier: tier, Reasons: reasons}
}
