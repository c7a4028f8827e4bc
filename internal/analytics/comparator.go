package analytics

import "math"

// Comparison is a current/prior value pair with the derived change.
type Comparison struct {
	CurrentValue  float64 `json:"current_value"`
	PriorValue    float64 `json:"prior_value"`
	PercentChange float64 `json:"percent_change"`
}

// PercentChange computes ((current-prior)/prior)*100. A zero baseline is
// defined as +100 when the current value is positive and 0 otherwise, so the
// result is never NaN or Inf. Every report comparison uses this convention.
func PercentChange(current, prior float64) float64 {
	if prior == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2((current - prior) / prior * 100)
}

// Compare pairs the two values with their percent change.
func Compare(current, prior float64) Comparison {
	return Comparison{
		CurrentValue:  current,
		PriorValue:    prior,
		PercentChange: PercentChange(current, prior),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
