package feature

import (
	"math"
	"sort"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
)

// Recent filters rows to the given PCODE, sorts them by date ascending, drops
// rows whose rainfall or rolling sums are undefined, and returns the last n.
// Fewer than n surviving rows returns them all; an unknown PCODE or n <= 0
// returns an empty slice, never an error.
func Recent(rows []domain.FeatureRow, pcode string, n int) []domain.FeatureRow {
	if n <= 0 {
		return nil
	}

	var out []domain.FeatureRow
	for _, row := range rows {
		if row.PCode != pcode {
			continue
		}
		if math.IsNaN(row.Rainfall) || math.IsNaN(row.Rain3d) || math.IsNaN(row.Rain7d) {
			continue
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
