package domain

import (
	"sort"
	"time"
)

// Observation is one rainfall reading for one administrative unit on one date.
type Observation struct {
	PCode    string    `json:"pcode"`
	Date     time.Time `json:"date"`
	Rainfall float64   `json:"rain_mm"`
}

// FeatureRow is an Observation annotated with rolling statistics and the
// derived risk level. Pointer fields are nil until the trailing window holds
// enough observations to define them.
type FeatureRow struct {
	Observation

	RainMean  *float64 `json:"rain_mean,omitempty"`
	RainStd   *float64 `json:"rain_std,omitempty"`
	ZScore    *float64 `json:"z_score,omitempty"`
	IsAnomaly *bool    `json:"is_anomaly,omitempty"`

	Rain3d float64 `json:"rain_3d"`
	Rain7d float64 `json:"rain_7d"`

	RiskLevel RiskLevel `json:"risk_level"`
}

// Anomalous reports the row's anomaly flag, treating an undefined flag
// (window not yet filled) as not anomalous.
func (r FeatureRow) Anomalous() bool {
	return r.IsAnomaly != nil && *r.IsAnomaly
}

// FeatureSet is one complete pipeline output: every FeatureRow for every
// PCODE, sorted by (PCode, Date). It is recomputed in full on each build;
// nothing is mutated incrementally.
type FeatureSet struct {
	Rows    []FeatureRow `json:"rows"`
	BuiltAt time.Time    `json:"built_at"`
}

// NewFeatureSet wraps built rows with a build timestamp from the package clock.
func NewFeatureSet(rows []FeatureRow) FeatureSet {
	return FeatureSet{Rows: rows, BuiltAt: clock.Now()}
}

// PCodes returns the distinct PCODEs present in the set, sorted ascending.
func (s FeatureSet) PCodes() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, row := range s.Rows {
		if _, ok := seen[row.PCode]; ok {
			continue
		}
		seen[row.PCode] = struct{}{}
		codes = append(codes, row.PCode)
	}
	sort.Strings(codes)
	return codes
}

// HighRisk returns the rows classified at the highest risk level, in set order.
func (s FeatureSet) HighRisk() []FeatureRow {
	var out []FeatureRow
	for _, row := range s.Rows {
		if row.RiskLevel == RiskHigh {
			out = append(out, row)
		}
	}
	return out
}
