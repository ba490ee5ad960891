package pipeline

import (
	"testing"

	"docmatch/internal"
	"docmatch/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		SemanticMinConfidence: 0.7,
		PositionTolerance:     50,
		HighConfidenceField:   0.8,
	}
}

func pos(x, y float64) *internal.Position { return &internal.Position{X: x, Y: y} }

func scenarioTemplate() internal.TemplateCandidate {
	return internal.TemplateCandidate{
		ID:           "tpl-contact",
		Name:         "Contact form",
		Version:      "1",
		DocumentType: "form",
		Fields: []internal.TemplateFieldSpec{
			{ID: "f1", Label: "Full Name", X: 10, Y: 10},
			{ID: "f2", Label: "Email", X: 10, Y: 40},
		},
	}
}

func scenarioFields() []internal.ExtractedField {
	return []internal.ExtractedField{
		{Label: "name", Value: "Jo", Confidence: 0.9, Position: pos(12, 9)},
		{Label: "email", Value: "jo@x.com", Confidence: 0.95, Position: pos(11, 41)},
	}
}

func TestMatchFieldsScenarioA(t *testing.T) {
	m := NewMatcher(testConfig())
	tmpl := scenarioTemplate()
	matches := m.MatchFields(tmpl, NormalizeFields(scenarioFields()))

	if len(matches) != 2 {
		t.Fatalf("len=%d", len(matches))
	}
	for i, want := range []string{"f1", "f2"} {
		got := matches[i]
		if got.TemplateFieldID != want || !got.IsSemanticMatch || !got.IsPositionMatch {
			t.Fatalf("field %s: unexpected %+v", want, got)
		}
	}
	if matches[1].ExtractedFieldID == nil || *matches[1].ExtractedFieldID != 1 {
		t.Fatalf("email should be matched to extracted field 1, got %v", matches[1].ExtractedFieldID)
	}

	res := Score(tmpl, matches, 0.92)
	if res.MatchedFieldCount != 2 || res.TotalFieldCount != 2 {
		t.Fatalf("counts: %+v", res)
	}
}

func TestLabelsMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{a: "fullname", b: "name", want: true},
		{a: "email", b: "email", want: true},
		{a: "dateofbirth", b: "dob", want: true},
		{a: "telephone", b: "mobile", want: true},
		{a: "residence", b: "addr", want: true},
		{a: "clientname", b: "personname", want: true},
		{a: "email", b: "phone", want: false},
		{a: "total", b: "amount", want: false},
		{a: "", b: "name", want: false},
		{a: "", b: "", want: false},
	}
	for _, tc := range cases {
		if got := labelsMatch(tc.a, tc.b); got != tc.want {
			t.Fatalf("labelsMatch(%q,%q)=%v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSemanticMatchNeedsConfidence(t *testing.T) {
	m := NewMatcher(testConfig())
	tmpl := internal.TemplateCandidate{ID: "t", Fields: []internal.TemplateFieldSpec{{ID: "f1", Label: "Phone", X: 500, Y: 500}}}
	fields := []internal.ExtractedField{{Label: "Telephone", Value: "123", Confidence: 0.69}}

	matches := m.MatchFields(tmpl, NormalizeFields(fields))
	if matches[0].IsSemanticMatch || matches[0].ExtractedFieldID != nil {
		t.Fatalf("low confidence field must not match: %+v", matches[0])
	}

	fields[0].Confidence = 0.7
	matches = m.MatchFields(tmpl, NormalizeFields(fields))
	if !matches[0].IsSemanticMatch {
		t.Fatalf("field at the confidence floor should match: %+v", matches[0])
	}
}

func TestFirstQualifyingFieldWins(t *testing.T) {
	m := NewMatcher(testConfig())
	tmpl := internal.TemplateCandidate{ID: "t", Fields: []internal.TemplateFieldSpec{{ID: "f1", Label: "Address", X: 0, Y: 0}}}
	fields := []internal.ExtractedField{
		{Label: "Address", Confidence: 0.5},
		{Label: "Location", Confidence: 0.8},
		{Label: "Addr", Confidence: 0.99},
	}
	matches := m.MatchFields(tmpl, NormalizeFields(fields))
	if matches[0].ExtractedFieldID == nil || *matches[0].ExtractedFieldID != 1 {
		t.Fatalf("expected extracted field 1, got %+v", matches[0])
	}
}

func TestPositionMatchIndependentOfLabel(t *testing.T) {
	m := NewMatcher(testConfig())
	tmpl := internal.TemplateCandidate{ID: "t", Fields: []internal.TemplateFieldSpec{{ID: "f1", Label: "Invoice Total", X: 100, Y: 100}}}
	fields := []internal.ExtractedField{
		{Label: "unrelated", Confidence: 0.2, Position: pos(150, 50)},
		{Label: "other", Confidence: 0.9},
	}
	matches := m.MatchFields(tmpl, NormalizeFields(fields))
	if matches[0].IsSemanticMatch || !matches[0].IsPositionMatch {
		t.Fatalf("expected position-only match at tolerance edge: %+v", matches[0])
	}
	if matches[0].ExtractedFieldID == nil || *matches[0].ExtractedFieldID != 0 {
		t.Fatalf("position winner should be reported: %+v", matches[0])
	}

	fields[0].Position = pos(150.5, 100)
	matches = m.MatchFields(tmpl, NormalizeFields(fields))
	if matches[0].IsPositionMatch {
		t.Fatalf("outside tolerance must not match: %+v", matches[0])
	}
}
