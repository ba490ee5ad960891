package learning

import (
	"docmatch/internal"
	"docmatch/internal/util"
)

const (
	DefaultThreshold = 0.5
	MinThreshold     = 0.3
	MaxThreshold     = 0.8

	targetAccuracy = 0.8
)

// Threshold derives the acceptance threshold from a template's history.
// Templates without history get DefaultThreshold.
func Threshold(stats *internal.TemplateAnalytics) float64 {
	if stats == nil {
		return DefaultThreshold
	}
	performance := (stats.AverageAccuracy - targetAccuracy) * 0.2
	trend := Trend(stats.TrendingAccuracy) * 0.1
	return util.Clamp(DefaultThreshold+performance+trend, MinThreshold, MaxThreshold)
}

// Trend compares the mean of the most recent samples with the mean of the
// older ones. The recent window is three samples, shrunk to half the history
// for short histories so both sides stay non-empty.
func Trend(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	window := len(values) / 2
	if window > 3 {
		window = 3
	}
	recent := values[len(values)-window:]
	older := values[:len(values)-window]
	return util.Mean(recent) - util.Mean(older)
}
