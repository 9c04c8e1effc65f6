// Command validate performs integrity checks over a rainfall CSV and the
// feature set built from it: parseability, per-PCODE date ordering, the
// rolling-sum identities, anomaly warm-up, and classifier consistency.
// It exists so a new data export can be vetted before riskd serves it.
//
// Usage:
//
//	go run ./cmd/validate -csv data/rainfall.csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/feature"
	"github.com/couchcryptid/rainfall-risk-service/internal/loader"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "rainfall CSV to validate")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	phases, ok := runPhases(*csvPath)
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, msg := range p.errors {
			fmt.Printf("       %s\n", msg)
		}
	}
	if !ok {
		os.Exit(1)
	}
}

func runPhases(csvPath string) ([]*phase, bool) {
	loadPhase := &phase{name: "load CSV"}
	result, err := loader.LoadFile(csvPath)
	if err != nil {
		loadPhase.errorf("%v", err)
		return []*phase{loadPhase}, false
	}
	if len(result.Observations) == 0 {
		loadPhase.errorf("no observations parsed")
		return []*phase{loadPhase}, false
	}

	params := feature.DefaultParams()
	rows, err := feature.Build(result.Observations, params)
	if err != nil {
		loadPhase.errorf("feature build: %v", err)
		return []*phase{loadPhase}, false
	}

	phases := []*phase{
		loadPhase,
		checkOrdering(rows),
		checkRollingSums(rows, params),
		checkAnomalyWarmup(rows, params),
		checkClassifier(rows, params),
	}

	ok := true
	for _, p := range phases {
		ok = ok && p.passed()
	}
	return phases, ok
}

// checkOrdering verifies rows are grouped by PCODE with nondecreasing dates.
func checkOrdering(rows []domain.FeatureRow) *phase {
	p := &phase{name: "per-pcode date ordering"}
	for i := 1; i < len(rows); i++ {
		if rows[i].PCode != rows[i-1].PCode {
			continue
		}
		if rows[i].Date.Before(rows[i-1].Date) {
			p.errorf("%s: date %s before %s at row %d",
				rows[i].PCode, rows[i].Date.Format("2006-01-02"),
				rows[i-1].Date.Format("2006-01-02"), i)
		}
	}
	return p
}

// checkRollingSums recomputes Rain3d and Rain7d naively and compares.
func checkRollingSums(rows []domain.FeatureRow, params feature.Params) *phase {
	p := &phase{name: "rolling sum identities"}
	for i, row := range rows {
		if got, want := row.Rain3d, naiveSum(rows, i, params.ShortWindow); !closeTo(got, want) {
			p.errorf("%s %s: rain_3d = %g, recomputed %g",
				row.PCode, row.Date.Format("2006-01-02"), got, want)
		}
		if got, want := row.Rain7d, naiveSum(rows, i, params.LongWindow); !closeTo(got, want) {
			p.errorf("%s %s: rain_7d = %g, recomputed %g",
				row.PCode, row.Date.Format("2006-01-02"), got, want)
		}
	}
	return p
}

// naiveSum sums the trailing window ending at index i without crossing a
// PCODE boundary.
func naiveSum(rows []domain.FeatureRow, i, window int) float64 {
	sum := 0.0
	for j := i; j > i-window && j >= 0; j-- {
		if rows[j].PCode != rows[i].PCode {
			break
		}
		sum += rows[j].Rainfall
	}
	return sum
}

// checkAnomalyWarmup verifies no anomaly flag is defined before the rolling
// window holds its minimum observation count.
func checkAnomalyWarmup(rows []domain.FeatureRow, params feature.Params) *phase {
	p := &phase{name: "anomaly warm-up"}
	minPeriods := params.Window / 2

	count := 0
	current := ""
	for _, row := range rows {
		if row.PCode != current {
			current = row.PCode
			count = 0
		}
		count++
		if count < minPeriods && row.IsAnomaly != nil {
			p.errorf("%s %s: anomaly flag defined after only %d observations",
				row.PCode, row.Date.Format("2006-01-02"), count)
		}
		if count >= minPeriods && row.RainMean == nil {
			p.errorf("%s %s: rain_mean undefined after %d observations",
				row.PCode, row.Date.Format("2006-01-02"), count)
		}
	}
	return p
}

// checkClassifier re-applies the classifier to each row's own features.
func checkClassifier(rows []domain.FeatureRow, params feature.Params) *phase {
	p := &phase{name: "classifier consistency"}
	for _, row := range rows {
		want := params.Thresholds.Classify(row.Rainfall, row.Rain3d, row.Rain7d, row.Anomalous())
		if row.RiskLevel != want {
			p.errorf("%s %s: risk_level = %d, reclassified %d",
				row.PCode, row.Date.Format("2006-01-02"), row.RiskLevel, want)
		}
	}
	return p
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
