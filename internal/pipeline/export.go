package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"docmatch/internal"
)

const (
	sheetTemplates = "templates"
	sheetFields    = "fields"
)

// ExportAnalyticsXLSX writes one row per template and one row per tracked
// template field.
func ExportAnalyticsXLSX(summaries []internal.TemplateSummary, analytics []*internal.TemplateAnalytics, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetTemplates); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetFields); err != nil {
		return err
	}

	writeRow(f, sheetTemplates, 1, []any{"template_id", "usage_count", "average_accuracy", "threshold", "suggestion_count"})
	for i, s := range summaries {
		writeRow(f, sheetTemplates, i+2, []any{s.TemplateID, s.UsageCount, s.AverageAccuracy, s.Threshold, s.SuggestionCount})
	}

	writeRow(f, sheetFields, 1, []any{"template_id", "field_id", "field_label", "success_rate", "average_confidence", "improvement_trend"})
	r := 2
	for _, stats := range analytics {
		if stats == nil {
			continue
		}
		ids := make([]string, 0, len(stats.FieldPerformance))
		for id := range stats.FieldPerformance {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			perf := stats.FieldPerformance[id]
			writeRow(f, sheetFields, r, []any{stats.TemplateID, perf.FieldID, perf.FieldLabel, perf.SuccessRate, perf.AverageConfidence, string(perf.ImprovementTrend)})
			r++
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}
