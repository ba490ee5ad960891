package pipeline

import (
	"docmatch/internal"
	"docmatch/internal/util"
)

// Score turns raw field matches into a MatchResult. The confidence is the
// upstream base confidence; bonuses are reported as zero.
func Score(candidate internal.TemplateCandidate, matches []internal.FieldMatchResult, rawBaseConfidence float64) internal.MatchResult {
	total := len(candidate.Fields)
	base := util.Clamp(rawBaseConfidence, 0, 1)
	if total == 0 {
		base = 0
	}

	semantic, position, matched := 0, 0, 0
	for _, match := range matches {
		if match.IsSemanticMatch {
			semantic++
		}
		if match.IsPositionMatch {
			position++
		}
		if match.IsSemanticMatch || match.IsPositionMatch {
			matched++
		}
	}
	if matched > total {
		matched = total
	}

	return internal.MatchResult{
		TemplateID:        candidate.ID,
		Confidence:        base,
		MatchedFieldCount: matched,
		TotalFieldCount:   total,
		SemanticMatches:   semantic,
		PositionMatches:   position,
		ConfidenceBreakdown: internal.ConfidenceBreakdown{
			Base: base,
		},
		ExtractionQuality:      ClassifyQuality(base, semantic, position),
		ImprovementSuggestions: []string{},
	}
}

func ClassifyQuality(confidence float64, semanticMatches, positionMatches int) internal.ExtractionQuality {
	semantic := float64(semanticMatches)
	position := float64(positionMatches)
	switch {
	case confidence >= 0.9 && semantic >= 0.8*position:
		return internal.QualityExcellent
	case confidence >= 0.8 && semantic >= 0.6*position:
		return internal.QualityGood
	case confidence >= 0.6:
		return internal.QualityFair
	default:
		return internal.QualityPoor
	}
}

// ExtractionAccuracy is the share of fields whose own confidence reaches the
// high-confidence cut-off.
func (m *Matcher) ExtractionAccuracy(fields []internal.ExtractedField) float64 {
	if len(fields) == 0 {
		return 0
	}
	high := 0
	for _, field := range fields {
		if field.Confidence >= m.cfg.HighConfidenceField {
			high++
		}
	}
	return float64(high) / float64(len(fields))
}
