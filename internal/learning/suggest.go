package learning

import (
	"fmt"
	"sort"

	"docmatch/internal"
)

// Suggestions lists improvement hints for a template. Per-field hints are
// ordered by field id.
func Suggestions(stats *internal.TemplateAnalytics) []string {
	out := []string{}
	if stats == nil {
		return out
	}

	if stats.AverageAccuracy < targetAccuracy {
		out = append(out,
			"Consider reviewing field labels for better semantic matching",
			"Add validation rules to improve extraction accuracy",
		)
	}
	if stats.UsageCount > 10 && stats.AverageAccuracy < targetAccuracy {
		out = append(out, "Template may need field positioning adjustments based on usage patterns")
	}

	ids := make([]string, 0, len(stats.FieldPerformance))
	for id := range stats.FieldPerformance {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		perf := stats.FieldPerformance[id]
		if perf.SuccessRate < 0.7 {
			out = append(out, fmt.Sprintf("Field %q has low success rate (%.0f%%) - consider improving label or position", fieldName(perf), perf.SuccessRate*100))
		}
		if perf.AverageConfidence < 0.6 {
			out = append(out, fmt.Sprintf("Field %q has low confidence (%.0f%%) - may need clearer document formatting", fieldName(perf), perf.AverageConfidence*100))
		}
	}
	return out
}

func fieldName(perf *internal.FieldPerformance) string {
	if perf.FieldLabel != "" {
		return perf.FieldLabel
	}
	return perf.FieldID
}
