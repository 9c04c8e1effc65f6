package feature

import (
	"math"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
)

// annotateAnomalies fills RainMean, RainStd, ZScore, and IsAnomaly for rows
// already sorted by (PCode, Date). The accumulator resets on every PCODE
// change so windows never span two units. Rows before the window has
// minPeriods observations keep nil statistics; their anomaly flag stays
// undefined rather than false.
func annotateAnomalies(rows []domain.FeatureRow, window int, zThreshold, epsilon float64) {
	minPeriods := window / 2

	var acc *rollingStats
	var current string
	for i := range rows {
		if acc == nil || rows[i].PCode != current {
			current = rows[i].PCode
			acc = newRollingStats(window, minPeriods)
		}

		mean, std := acc.push(rows[i].Rainfall)
		rows[i].RainMean = mean
		rows[i].RainStd = std
		if mean == nil || std == nil {
			continue
		}

		z := (rows[i].Rainfall - *mean) / (*std + epsilon)
		anomalous := math.Abs(z) > zThreshold
		rows[i].ZScore = &z
		rows[i].IsAnomaly = &anomalous
	}
}
