package pipeline

import (
	"sort"

	"docmatch/internal"
)

// Rank scores every candidate against the extracted fields and sorts the
// results by confidence, keeping catalog order on ties. baseConfidence holds
// the analysis service's confidence per template id; a missing id scores 0.
func (m *Matcher) Rank(candidates []internal.TemplateCandidate, fields []internal.ExtractedField, baseConfidence map[string]float64) []internal.MatchResult {
	normalized := NormalizeFields(fields)

	out := make([]internal.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		base := baseConfidence[candidate.ID]
		if len(fields) == 0 {
			base = 0
		}
		matches := m.MatchFields(candidate, normalized)
		out = append(out, Score(candidate, matches, base))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}
