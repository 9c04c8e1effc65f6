package feature

import "math"

// rollingStats maintains a trailing window of raw values with incrementally
// updated sum and sum of squares, yielding the window mean and sample
// standard deviation in O(1) amortized time per pushed value.
type rollingStats struct {
	window     int
	minPeriods int
	values     []float64
	sum        float64
	sumSq      float64
}

func newRollingStats(window, minPeriods int) *rollingStats {
	if minPeriods < 1 {
		minPeriods = 1
	}
	return &rollingStats{
		window:     window,
		minPeriods: minPeriods,
		values:     make([]float64, 0, window),
	}
}

// push adds v to the window, evicting the oldest value once the window is
// full, and returns the trailing mean and sample standard deviation. Both are
// nil while the window holds fewer than minPeriods values; std is nil while
// it holds fewer than two, since the sample formula divides by n-1.
func (r *rollingStats) push(v float64) (mean, std *float64) {
	if len(r.values) == r.window {
		old := r.values[0]
		r.values = r.values[1:]
		r.sum -= old
		r.sumSq -= old * old
	}
	r.values = append(r.values, v)
	r.sum += v
	r.sumSq += v * v

	n := len(r.values)
	if n < r.minPeriods {
		return nil, nil
	}

	m := r.sum / float64(n)
	mean = &m
	if n < 2 {
		return mean, nil
	}

	variance := (r.sumSq - r.sum*r.sum/float64(n)) / float64(n-1)
	if variance < 0 {
		// Cancellation in sumSq - sum²/n can land a hair below zero when the
		// true variance is zero.
		variance = 0
	}
	s := math.Sqrt(variance)
	std = &s
	return mean, std
}

// rollingSum maintains a trailing window sum with minimum count 1: defined
// from the first pushed value onward.
type rollingSum struct {
	window int
	values []float64
	sum    float64
}

func newRollingSum(window int) *rollingSum {
	return &rollingSum{window: window, values: make([]float64, 0, window)}
}

func (r *rollingSum) push(v float64) float64 {
	if len(r.values) == r.window {
		r.sum -= r.values[0]
		r.values = r.values[1:]
	}
	r.values = append(r.values, v)
	r.sum += v
	return r.sum
}
