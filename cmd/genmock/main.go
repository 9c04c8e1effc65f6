// Command genmock generates a synthetic HDX-style rainfall CSV for local
// runs and test fixtures. Rainfall follows a seasonal wet/dry cycle with
// noise, plus occasional injected heavy-rain events so the pipeline has
// anomalies and high-risk rows to find. It then runs the real feature
// pipeline over the generated data and prints risk statistics, so a fixture
// is never committed without knowing what the pipeline makes of it.
//
// Usage:
//
//	go run ./cmd/genmock -out data/rainfall.csv -pcodes 5 -days 365 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/feature"
)

var baseDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	pcodes := flag.Int("pcodes", 5, "number of administrative units to generate")
	days := flag.Int("days", 365, "days of observations per unit")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))
	obs := generate(rng, *pcodes, *days)

	if err := writeCSV(*out, obs); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d observations for %d pcodes: %s", len(obs), *pcodes, *out)

	rows, err := feature.Build(obs, feature.DefaultParams())
	if err != nil {
		return fmt.Errorf("building features over fixture: %w", err)
	}
	printStats(rows)
	return nil
}

// generate produces a daily rainfall series per PCODE: a wet-season sinusoid
// with multiplicative noise, and roughly one heavy-rain burst per hundred
// days to exercise the anomaly and high-risk paths.
func generate(rng *rand.Rand, pcodes, days int) []domain.Observation {
	obs := make([]domain.Observation, 0, pcodes*days)
	for p := 0; p < pcodes; p++ {
		pcode := fmt.Sprintf("KE%03d", p+1)
		phase := rng.Float64() * 2 * math.Pi
		for d := 0; d < days; d++ {
			seasonal := 8 + 7*math.Sin(2*math.Pi*float64(d)/182.5+phase)
			rain := seasonal * (0.3 + rng.Float64()*1.4)
			if rng.Float64() < 0.01 {
				rain += 60 + rng.Float64()*120
			}
			obs = append(obs, domain.Observation{
				PCode:    pcode,
				Date:     baseDate.AddDate(0, 0, d),
				Rainfall: math.Round(rain*10) / 10,
			})
		}
	}
	return obs
}

func writeCSV(path string, obs []domain.Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "PCODE", "rfh"}); err != nil {
		return err
	}
	// HXL tag row, as real HDX exports carry.
	if err := w.Write([]string{"#date", "#adm2+code", "#indicator+rfh"}); err != nil {
		return err
	}
	for _, o := range obs {
		record := []string{
			o.Date.Format("2006-01-02"),
			o.PCode,
			fmt.Sprintf("%.1f", o.Rainfall),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printStats(rows []domain.FeatureRow) {
	var levels [3]int
	anomalies := 0
	for _, row := range rows {
		levels[row.RiskLevel]++
		if row.Anomalous() {
			anomalies++
		}
	}
	log.Printf("feature rows: %d", len(rows))
	log.Printf("anomalies: %d", anomalies)
	for level, count := range levels {
		log.Printf("risk %s: %d", domain.RiskLevel(level), count)
	}
}
