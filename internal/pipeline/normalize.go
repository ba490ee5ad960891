package pipeline

import (
	"docmatch/internal"
	"docmatch/internal/util"
)

// NormalizedField keeps the extracted field with its position in extraction
// order, which is also its id in FieldMatchResult.
type NormalizedField struct {
	internal.ExtractedField
	Index           int
	NormalizedLabel string
}

func NormalizeFields(fields []internal.ExtractedField) []NormalizedField {
	out := make([]NormalizedField, 0, len(fields))
	for i, field := range fields {
		out = append(out, NormalizedField{
			ExtractedField:  field,
			Index:           i,
			NormalizedLabel: util.NormalizeLabel(field.Label),
		})
	}
	return out
}
