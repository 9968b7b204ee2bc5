package metrics

import "math"

// OnTimeThresholdMinutes is the largest absolute delay still counted as on time
const OnTimeThresholdMinutes = 3

// WelfordState holds running statistics using Welford's online algorithm.
// Mean and standard deviation are updated in O(1) without storing observations.
type WelfordState struct {
	Count int     // n - number of observations
	Mean  float64 // running mean
	M2    float64 // sum of squared differences from mean (for variance)
}

// DelayStats is the persisted aggregate of delay observations for one bucket
type DelayStats struct {
	WelfordState
	OnTimeCount  int
	DelayedCount int
	MaxDelay     int // largest absolute delay seen, minutes
}

// Update adds a new observation using Welford's online algorithm.
// Reference: https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Welford's_online_algorithm
func (w *WelfordState) Update(newValue float64) {
	w.Count++
	delta := newValue - w.Mean
	w.Mean += delta / float64(w.Count)
	delta2 := newValue - w.Mean
	w.M2 += delta * delta2
}

// StdDev returns the population standard deviation.
// Returns 0 if fewer than 2 observations.
func (w *WelfordState) StdDev() float64 {
	if w.Count < 2 {
		return 0
	}
	return math.Sqrt(w.M2 / float64(w.Count))
}

// Observe folds one delay in minutes into the aggregate
func (s *DelayStats) Observe(delayMinutes int) {
	s.Update(float64(delayMinutes))

	abs := delayMinutes
	if abs < 0 {
		abs = -abs
	}
	if abs > OnTimeThresholdMinutes {
		s.DelayedCount++
	} else {
		s.OnTimeCount++
	}
	if abs > s.MaxDelay {
		s.MaxDelay = abs
	}
}

// OnTimePercent returns the share of on-time observations, 0-100
func (s *DelayStats) OnTimePercent() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.OnTimeCount) * 100 / float64(s.Count)
}
