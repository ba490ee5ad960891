package internal

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type ExtractedField struct {
	Label      string    `json:"label"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	Position   *Position `json:"position,omitempty"`
}

type TemplateFieldSpec struct {
	ID    string  `json:"id" yaml:"id"`
	Label string  `json:"label" yaml:"label"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
}

type TemplateCandidate struct {
	ID           string              `json:"id" yaml:"id"`
	Name         string              `json:"name" yaml:"name"`
	Version      string              `json:"version" yaml:"version"`
	DocumentType string              `json:"documentType" yaml:"documentType"`
	Fields       []TemplateFieldSpec `json:"fields" yaml:"fields"`
}

// FieldMatchResult reports how one template field matched. ExtractedFieldID
// is the index of the winning extracted field in extraction order, nil when
// nothing matched.
type FieldMatchResult struct {
	TemplateFieldID  string `json:"templateFieldId"`
	ExtractedFieldID *int   `json:"extractedFieldId,omitempty"`
	IsSemanticMatch  bool   `json:"isSemanticMatch"`
	IsPositionMatch  bool   `json:"isPositionMatch"`
}

type ExtractionQuality string

const (
	QualityExcellent ExtractionQuality = "excellent"
	QualityGood      ExtractionQuality = "good"
	QualityFair      ExtractionQuality = "fair"
	QualityPoor      ExtractionQuality = "poor"
)

type ConfidenceBreakdown struct {
	Base          float64 `json:"base"`
	SemanticBonus float64 `json:"semantic_bonus"`
	PositionBonus float64 `json:"position_bonus"`
}

type MatchResult struct {
	TemplateID             string              `json:"templateId"`
	Confidence             float64             `json:"confidence"`
	MatchedFieldCount      int                 `json:"matchedFieldCount"`
	TotalFieldCount        int                 `json:"totalFieldCount"`
	SemanticMatches        int                 `json:"semanticMatches"`
	PositionMatches        int                 `json:"positionMatches"`
	ConfidenceBreakdown    ConfidenceBreakdown `json:"confidenceBreakdown"`
	ExtractionQuality      ExtractionQuality   `json:"extractionQuality"`
	ImprovementSuggestions []string            `json:"improvementSuggestions"`
}

type UserFeedback string

const (
	FeedbackPositive UserFeedback = "positive"
	FeedbackNegative UserFeedback = "negative"
	FeedbackNeutral  UserFeedback = "neutral"
)

func (f UserFeedback) Valid() bool {
	switch f {
	case FeedbackPositive, FeedbackNegative, FeedbackNeutral:
		return true
	default:
		return false
	}
}

type FieldAccuracyRecord struct {
	FieldID            string  `json:"fieldId"`
	FieldLabel         string  `json:"fieldLabel"`
	ExtractedCorrectly bool    `json:"extractedCorrectly"`
	ConfidenceScore    float64 `json:"confidenceScore"`
	UserCorrected      bool    `json:"userCorrected"`
}

type UsageLogEntry struct {
	ID                 string                `json:"id"`
	TemplateID         string                `json:"templateId"`
	DocumentName       string                `json:"documentName"`
	ExtractionAccuracy float64               `json:"extractionAccuracy"`
	FieldAccuracies    []FieldAccuracyRecord `json:"fieldAccuracies"`
	UserFeedback       *UserFeedback         `json:"userFeedback,omitempty"`
	CorrectionCount    int                   `json:"correctionCount"`
	Timestamp          string                `json:"timestamp"`
	ProcessingTimeMs   int64                 `json:"processingTimeMs"`
}

type ImprovementTrend string

const (
	TrendImproving ImprovementTrend = "improving"
	TrendDeclining ImprovementTrend = "declining"
	TrendStable    ImprovementTrend = "stable"
)

type FieldPerformance struct {
	FieldID           string           `json:"fieldId"`
	FieldLabel        string           `json:"fieldLabel"`
	SuccessRate       float64          `json:"successRate"`
	AverageConfidence float64          `json:"averageConfidence"`
	ImprovementTrend  ImprovementTrend `json:"improvementTrend"`
}

type TemplateAnalytics struct {
	TemplateID       string                       `json:"templateId"`
	UsageCount       int                          `json:"usageCount"`
	AverageAccuracy  float64                      `json:"averageAccuracy"`
	FieldPerformance map[string]*FieldPerformance `json:"fieldPerformance"`
	TrendingAccuracy []float64                    `json:"trendingAccuracy"`
}

// TemplateSummary is the per-template row shown in reports.
type TemplateSummary struct {
	TemplateID      string  `json:"templateId"`
	UsageCount      int     `json:"usageCount"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	Threshold       float64 `json:"threshold"`
	SuggestionCount int     `json:"suggestionCount"`
}
