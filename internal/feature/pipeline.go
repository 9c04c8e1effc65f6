package feature

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/observability"
)

// Default parameter values. These are contract constants of the pipeline,
// not tuning knobs: downstream consumers and the alerting rules assume them.
const (
	DefaultWindow      = 14
	DefaultZThreshold  = 3.0
	DefaultEpsilon     = 1e-3
	DefaultShortWindow = 3
	DefaultLongWindow  = 7
	DefaultRecentCount = 120
)

// Params holds every tunable of the feature pipeline.
type Params struct {
	Window      int     // rolling mean/std window; statistics defined after Window/2 observations
	ZThreshold  float64 // |z| above which a row is flagged anomalous
	Epsilon     float64 // added to std before dividing, so flat windows don't divide by zero
	ShortWindow int     // Rain3d sum window
	LongWindow  int     // Rain7d sum window
	Thresholds  domain.RiskThresholds
}

// DefaultParams returns the parameters every production deployment uses.
func DefaultParams() Params {
	return Params{
		Window:      DefaultWindow,
		ZThreshold:  DefaultZThreshold,
		Epsilon:     DefaultEpsilon,
		ShortWindow: DefaultShortWindow,
		LongWindow:  DefaultLongWindow,
		Thresholds:  domain.DefaultRiskThresholds(),
	}
}

func (p Params) validate() error {
	if p.Window < 2 {
		return fmt.Errorf("window must be at least 2, got %d", p.Window)
	}
	if p.ZThreshold <= 0 {
		return fmt.Errorf("z-threshold must be positive, got %g", p.ZThreshold)
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", p.Epsilon)
	}
	if p.ShortWindow < 1 || p.LongWindow < 1 {
		return fmt.Errorf("sum windows must be at least 1, got %d and %d", p.ShortWindow, p.LongWindow)
	}
	return nil
}

// Build runs the full pipeline over obs: stable sort by (PCode, Date),
// anomaly annotation, window aggregation, then row-wise risk classification.
// It is a pure function of its inputs — obs itself is not modified — and
// returns every row unfiltered. Observations missing a PCODE or date are
// rejected with an error rather than silently defaulted.
func Build(obs []domain.Observation, p Params) ([]domain.FeatureRow, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline params: %w", err)
	}

	rows := make([]domain.FeatureRow, 0, len(obs))
	for i, o := range obs {
		if o.PCode == "" {
			return nil, fmt.Errorf("observation %d: missing pcode", i)
		}
		if o.Date.IsZero() {
			return nil, fmt.Errorf("observation %d (%s): missing date", i, o.PCode)
		}
		rows = append(rows, domain.FeatureRow{Observation: o})
	}

	// Stable, so duplicate dates within a PCODE keep their input order.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PCode != rows[j].PCode {
			return rows[i].PCode < rows[j].PCode
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	annotateAnomalies(rows, p.Window, p.ZThreshold, p.Epsilon)
	aggregateSums(rows, p.ShortWindow, p.LongWindow)

	for i := range rows {
		rows[i].RiskLevel = p.Thresholds.Classify(
			rows[i].Rainfall, rows[i].Rain3d, rows[i].Rain7d, rows[i].Anomalous())
	}

	return rows, nil
}

// Pipeline wraps Build with logging and metrics for the service runtime.
type Pipeline struct {
	params  Params
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline with the given parameters and observability.
func New(params Params, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{params: params, logger: logger, metrics: metrics}
}

// Build runs the pipeline over obs and returns a timestamped FeatureSet.
func (p *Pipeline) Build(obs []domain.Observation) (domain.FeatureSet, error) {
	if len(obs) == 0 {
		return domain.FeatureSet{}, errors.New("no observations to build features from")
	}

	start := time.Now()
	rows, err := Build(obs, p.params)
	if err != nil {
		return domain.FeatureSet{}, err
	}

	anomalies := 0
	var levels [3]int
	for _, row := range rows {
		if row.Anomalous() {
			anomalies++
		}
		levels[row.RiskLevel]++
	}

	set := domain.NewFeatureSet(rows)

	p.metrics.FeatureRows.Set(float64(len(rows)))
	p.metrics.AnomaliesFlagged.Add(float64(anomalies))
	for level, count := range levels {
		p.metrics.RiskRows.WithLabelValues(domain.RiskLevel(level).String()).Add(float64(count))
	}
	p.metrics.BuildDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("feature build complete",
		"rows", len(rows),
		"pcodes", len(set.PCodes()),
		"anomalies", anomalies,
		"high_risk_rows", levels[domain.RiskHigh],
		"duration", time.Since(start),
	)

	return set, nil
}
