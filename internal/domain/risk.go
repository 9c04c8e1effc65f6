package domain

// RiskLevel is the three-level rule-based flood risk classification.
type RiskLevel int

const (
	RiskLow    RiskLevel = 0
	RiskMedium RiskLevel = 1
	RiskHigh   RiskLevel = 2
)

// String returns the lowercase label used in logs, metrics, and alert headers.
func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// RiskThresholds holds the rainfall cutoffs (mm) for the rule-based
// classifier. All comparisons are inclusive (>=).
type RiskThresholds struct {
	HighRain   float64 // single-day rainfall, combined with the anomaly flag
	HighRain3d float64 // trailing 3-observation sum
	HighRain7d float64 // trailing 7-observation sum

	MediumRain   float64
	MediumRain3d float64
	MediumRain7d float64
}

// DefaultRiskThresholds returns the contract constants of the classifier.
// They are empirically chosen rule-of-thumb values from the original
// analysis; do not tune them here.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		HighRain:   50,
		HighRain3d: 130,
		HighRain7d: 200,

		MediumRain:   30,
		MediumRain3d: 80,
		MediumRain7d: 120,
	}
}

// Classify maps one row's features to a risk level. It is a pure function:
// evaluation order matters (high before medium, first match wins) and no
// state outside the arguments is consulted. Callers with an undefined
// anomaly flag pass false.
func (t RiskThresholds) Classify(rainMM, rain3d, rain7d float64, isAnomaly bool) RiskLevel {
	if (isAnomaly && rainMM >= t.HighRain) || rain3d >= t.HighRain3d || rain7d >= t.HighRain7d {
		return RiskHigh
	}
	if isAnomaly || rainMM >= t.MediumRain || rain3d >= t.MediumRain3d || rain7d >= t.MediumRain7d {
		return RiskMedium
	}
	return RiskLow
}
