// Package predict estimates how likely a free curb spot is at a given time.
// This is a deliberate placeholder: a fixed weekday/hour heuristic stands in
// where a model trained on historical occupancy would go.
package predict

import (
	"time"

	"parking-nav-backend/internal/rules"
)

// Prediction is a heuristic availability estimate for one sign.
type Prediction struct {
	SignID         int64             `json:"sign_id"`
	PredictionTime time.Time         `json:"prediction_time"`
	Probability    float64           `json:"availability_probability"`
	Confidence     float64           `json:"confidence"`
	Factors        map[string]string `json:"factors"`
}

// Availability returns the heuristic estimate for a sign at the target time.
func Availability(signID int64, target time.Time) Prediction {
	weekday := rules.WeekdayIndex(target)
	hour := target.Hour()

	businessHours := hour >= 8 && hour <= 18
	weekend := weekday >= 5

	var probability float64
	switch {
	case !weekend && businessHours:
		probability = 0.3
	case !weekend:
		probability = 0.7
	default:
		probability = 0.6
	}

	dayImpact := "high_impact"
	if weekend {
		dayImpact = "low_impact"
	}
	timeImpact := "medium_impact"
	if businessHours {
		timeImpact = "high_impact"
	}

	return Prediction{
		SignID:         signID,
		PredictionTime: target,
		Probability:    probability,
		Confidence:     0.75,
		Factors: map[string]string{
			"day_of_week":        dayImpact,
			"time_of_day":        timeImpact,
			"historical_pattern": "consistent",
		},
	}
}
