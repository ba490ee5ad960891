package pipeline

import (
	"math"
	"strings"

	"docmatch/internal"
	"docmatch/internal/config"
	"docmatch/internal/util"
)

// synonymGroups are already normalized. Two labels are synonyms when both
// contain a term of the same group.
var synonymGroups = [][]string{
	{"name", "fullname", "personname", "clientname"},
	{"address", "location", "residence", "addr"},
	{"phone", "telephone", "mobile", "phonenumber", "contact"},
	{"email", "emailaddress", "emailid", "mail"},
	{"date", "dateofbirth", "dob", "birthdate", "registrationdate"},
}

type Matcher struct {
	cfg config.Config
}

func NewMatcher(cfg config.Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// MatchFields returns one result per template field, in template order.
// Semantic and position matches are searched independently; the first
// qualifying extracted field in extraction order wins each.
func (m *Matcher) MatchFields(candidate internal.TemplateCandidate, fields []NormalizedField) []internal.FieldMatchResult {
	out := make([]internal.FieldMatchResult, 0, len(candidate.Fields))
	for _, spec := range candidate.Fields {
		specLabel := util.NormalizeLabel(spec.Label)
		result := internal.FieldMatchResult{TemplateFieldID: spec.ID}

		semanticIdx, positionIdx := -1, -1
		for _, field := range fields {
			if semanticIdx < 0 && field.Confidence >= m.cfg.SemanticMinConfidence && labelsMatch(specLabel, field.NormalizedLabel) {
				semanticIdx = field.Index
			}
			if positionIdx < 0 && m.positionMatches(spec, field) {
				positionIdx = field.Index
			}
			if semanticIdx >= 0 && positionIdx >= 0 {
				break
			}
		}

		result.IsSemanticMatch = semanticIdx >= 0
		result.IsPositionMatch = positionIdx >= 0
		switch {
		case semanticIdx >= 0:
			result.ExtractedFieldID = util.IntPtr(semanticIdx)
		case positionIdx >= 0:
			result.ExtractedFieldID = util.IntPtr(positionIdx)
		}
		out = append(out, result)
	}
	return out
}

func (m *Matcher) positionMatches(spec internal.TemplateFieldSpec, field NormalizedField) bool {
	if field.Position == nil {
		return false
	}
	return math.Abs(field.Position.X-spec.X) <= m.cfg.PositionTolerance &&
		math.Abs(field.Position.Y-spec.Y) <= m.cfg.PositionTolerance
}

func labelsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	for _, group := range synonymGroups {
		if containsAny(a, group) && containsAny(b, group) {
			return true
		}
	}
	return false
}

func containsAny(label string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(label, term) {
			return true
		}
	}
	return false
}
