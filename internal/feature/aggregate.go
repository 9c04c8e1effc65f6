package feature

import "github.com/couchcryptid/rainfall-risk-service/internal/domain"

// aggregateSums fills Rain3d and Rain7d for rows already sorted by
// (PCode, Date). Minimum count is 1: the first observation of a PCODE sums
// to its own rainfall. Both accumulators reset on every PCODE change.
func aggregateSums(rows []domain.FeatureRow, shortWindow, longWindow int) {
	var short, long *rollingSum
	var current string
	for i := range rows {
		if short == nil || rows[i].PCode != current {
			current = rows[i].PCode
			short = newRollingSum(shortWindow)
			long = newRollingSum(longWindow)
		}
		rows[i].Rain3d = short.push(rows[i].Rainfall)
		rows[i].Rain7d = long.push(rows[i].Rainfall)
	}
}
