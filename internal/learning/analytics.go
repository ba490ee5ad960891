package learning

import (
	"sort"

	"docmatch/internal"
)

const (
	trendWindow = 10
	// trendEpsilon is the success-rate change below which a field is stable.
	trendEpsilon = 0.01
)

// Aggregator keeps one running TemplateAnalytics per template id.
type Aggregator struct {
	templates map[string]*internal.TemplateAnalytics
}

func NewAggregator() *Aggregator {
	return &Aggregator{templates: map[string]*internal.TemplateAnalytics{}}
}

// Update folds one usage entry into the template's running statistics.
// Field means advance on the template usage counter, so a field first seen
// on a later usage starts from a zero mean over all earlier usages.
func (a *Aggregator) Update(templateID string, entry internal.UsageLogEntry) {
	stats, ok := a.templates[templateID]
	if !ok {
		stats = &internal.TemplateAnalytics{
			TemplateID:       templateID,
			FieldPerformance: map[string]*internal.FieldPerformance{},
			TrendingAccuracy: []float64{},
		}
		a.templates[templateID] = stats
	}

	stats.UsageCount++
	n := float64(stats.UsageCount)
	stats.AverageAccuracy = runningMean(stats.AverageAccuracy, entry.ExtractionAccuracy, n)

	stats.TrendingAccuracy = append(stats.TrendingAccuracy, entry.ExtractionAccuracy)
	if len(stats.TrendingAccuracy) > trendWindow {
		stats.TrendingAccuracy = append([]float64(nil), stats.TrendingAccuracy[len(stats.TrendingAccuracy)-trendWindow:]...)
	}

	for _, record := range entry.FieldAccuracies {
		perf, ok := stats.FieldPerformance[record.FieldID]
		if !ok {
			perf = &internal.FieldPerformance{
				FieldID:          record.FieldID,
				FieldLabel:       record.FieldLabel,
				ImprovementTrend: internal.TrendStable,
			}
			stats.FieldPerformance[record.FieldID] = perf
		}

		success := 0.0
		if record.ExtractedCorrectly {
			success = 1
		}
		previous := perf.SuccessRate
		perf.SuccessRate = runningMean(perf.SuccessRate, success, n)
		perf.AverageConfidence = runningMean(perf.AverageConfidence, record.ConfidenceScore, n)
		if ok {
			perf.ImprovementTrend = trendOf(perf.SuccessRate - previous)
		}
		if record.FieldLabel != "" {
			perf.FieldLabel = record.FieldLabel
		}
	}
}

// Get returns a deep copy of the template's analytics, or nil if the
// template has never been used.
func (a *Aggregator) Get(templateID string) *internal.TemplateAnalytics {
	stats, ok := a.templates[templateID]
	if !ok {
		return nil
	}
	return cloneAnalytics(stats)
}

func (a *Aggregator) TemplateIDs() []string {
	ids := make([]string, 0, len(a.templates))
	for id := range a.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *Aggregator) snapshot() map[string]*internal.TemplateAnalytics {
	out := make(map[string]*internal.TemplateAnalytics, len(a.templates))
	for id, stats := range a.templates {
		out[id] = cloneAnalytics(stats)
	}
	return out
}

func (a *Aggregator) restore(records map[string]*internal.TemplateAnalytics) {
	a.templates = make(map[string]*internal.TemplateAnalytics, len(records))
	for id, stats := range records {
		if stats == nil {
			continue
		}
		stats = cloneAnalytics(stats)
		stats.TemplateID = id
		a.templates[id] = stats
	}
}

func runningMean(mean, sample, n float64) float64 {
	return (mean*(n-1) + sample) / n
}

func trendOf(delta float64) internal.ImprovementTrend {
	switch {
	case delta > trendEpsilon:
		return internal.TrendImproving
	case delta < -trendEpsilon:
		return internal.TrendDeclining
	default:
		return internal.TrendStable
	}
}

func cloneAnalytics(stats *internal.TemplateAnalytics) *internal.TemplateAnalytics {
	out := *stats
	out.TrendingAccuracy = append([]float64{}, stats.TrendingAccuracy...)
	out.FieldPerformance = make(map[string]*internal.FieldPerformance, len(stats.FieldPerformance))
	for id, perf := range stats.FieldPerformance {
		if perf == nil {
			continue
		}
		p := *perf
		if p.ImprovementTrend == "" {
			p.ImprovementTrend = internal.TrendStable
		}
		out.FieldPerformance[id] = &p
	}
	return &out
}
