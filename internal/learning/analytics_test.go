package learning

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"docmatch/internal"
)

func TestAggregatorIncrementalMean(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 20; run++ {
		a := NewAggregator()
		n := 1 + rng.Intn(300)
		sum := 0.0
		for i := 0; i < n; i++ {
			acc := rng.Float64()
			sum += acc
			a.Update("tpl", internal.UsageLogEntry{TemplateID: "tpl", ExtractionAccuracy: acc})
		}
		stats := a.Get("tpl")
		require.Equal(t, n, stats.UsageCount)
		require.InDelta(t, sum/float64(n), stats.AverageAccuracy, 1e-9)
	}
}

func TestAggregatorFieldSuccessRateMean(t *testing.T) {
	a := NewAggregator()
	outcomes := []bool{true, false, true, true, false, true}
	confidences := []float64{0.9, 0.3, 0.8, 0.7, 0.2, 0.95}
	successes, confSum := 0.0, 0.0
	for i, ok := range outcomes {
		if ok {
			successes++
		}
		confSum += confidences[i]
		a.Update("tpl", internal.UsageLogEntry{
			TemplateID:         "tpl",
			ExtractionAccuracy: 0.5,
			FieldAccuracies:    []internal.FieldAccuracyRecord{{FieldID: "f1", FieldLabel: "Name", ExtractedCorrectly: ok, ConfidenceScore: confidences[i]}},
		})
	}

	perf := a.Get("tpl").FieldPerformance["f1"]
	require.NotNil(t, perf)
	require.InDelta(t, successes/float64(len(outcomes)), perf.SuccessRate, 1e-9)
	require.InDelta(t, confSum/float64(len(outcomes)), perf.AverageConfidence, 1e-9)
	require.Equal(t, "Name", perf.FieldLabel)
}

func TestAggregatorFieldMeanAdvancesOnTemplateUsage(t *testing.T) {
	a := NewAggregator()
	a.Update("tpl", internal.UsageLogEntry{ExtractionAccuracy: 1})
	a.Update("tpl", internal.UsageLogEntry{ExtractionAccuracy: 1})
	a.Update("tpl", internal.UsageLogEntry{
		ExtractionAccuracy: 1,
		FieldAccuracies:    []internal.FieldAccuracyRecord{{FieldID: "late", ExtractedCorrectly: true, ConfidenceScore: 0.9}},
	})

	perf := a.Get("tpl").FieldPerformance["late"]
	require.InDelta(t, 1.0/3.0, perf.SuccessRate, 1e-9)
	require.InDelta(t, 0.3, perf.AverageConfidence, 1e-9)
	require.Equal(t, internal.TrendStable, perf.ImprovementTrend)
}

func TestAggregatorImprovementTrend(t *testing.T) {
	a := NewAggregator()
	update := func(ok bool) {
		a.Update("tpl", internal.UsageLogEntry{FieldAccuracies: []internal.FieldAccuracyRecord{{FieldID: "f1", ExtractedCorrectly: ok, ConfidenceScore: 0.9}}})
	}
	update(true)
	update(false)
	require.Equal(t, internal.TrendDeclining, a.Get("tpl").FieldPerformance["f1"].ImprovementTrend)
	update(true)
	require.Equal(t, internal.TrendImproving, a.Get("tpl").FieldPerformance["f1"].ImprovementTrend)
}

func TestAggregatorTrendingWindow(t *testing.T) {
	a := NewAggregator()
	for i := 1; i <= 15; i++ {
		a.Update("tpl", internal.UsageLogEntry{ExtractionAccuracy: float64(i) / 100})
	}
	trend := a.Get("tpl").TrendingAccuracy
	require.Len(t, trend, 10)
	require.InDelta(t, 0.06, trend[0], 1e-12)
	require.InDelta(t, 0.15, trend[9], 1e-12)
}

func TestAggregatorGetReturnsCopy(t *testing.T) {
	a := NewAggregator()
	require.Nil(t, a.Get("unknown"))

	a.Update("tpl", internal.UsageLogEntry{ExtractionAccuracy: 0.4, FieldAccuracies: []internal.FieldAccuracyRecord{{FieldID: "f1"}}})
	snap := a.Get("tpl")
	snap.UsageCount = 99
	snap.TrendingAccuracy[0] = 1
	snap.FieldPerformance["f1"].SuccessRate = 1

	fresh := a.Get("tpl")
	require.Equal(t, 1, fresh.UsageCount)
	require.InDelta(t, 0.4, fresh.TrendingAccuracy[0], 1e-12)
	require.Equal(t, 0.0, fresh.FieldPerformance["f1"].SuccessRate)
}
