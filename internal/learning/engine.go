package learning

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"docmatch/internal"
	"docmatch/internal/config"
	"docmatch/internal/pipeline"
	"docmatch/internal/storage"
	"docmatch/internal/util"
)

// Engine ranks templates and learns from recorded usages. All writes are
// serialized so every read-modify-write of the log and analytics is atomic.
type Engine struct {
	mu        sync.RWMutex
	matcher   *pipeline.Matcher
	usage     *UsageLog
	analytics *Aggregator
	state     *stateStore
	logger    *log.Logger
	now       func() time.Time
}

// Document is one analysed document awaiting a template decision.
type Document struct {
	Name           string
	Candidates     []internal.TemplateCandidate
	Fields         []internal.ExtractedField
	BaseConfidence map[string]float64
}

type ProcessResult struct {
	Ranking   []internal.MatchResult
	Threshold float64
	Accepted  bool
	Usage     *internal.UsageLogEntry
}

// NewEngine loads the persisted state from kv. A nil logger discards output.
func NewEngine(ctx context.Context, cfg config.Config, kv storage.KV, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &Engine{
		matcher:   pipeline.NewMatcher(cfg),
		usage:     NewUsageLog(cfg.UsageLogCapacity),
		analytics: NewAggregator(),
		state:     &stateStore{kv: kv, logger: logger},
		logger:    logger,
		now:       time.Now,
	}

	for _, entry := range e.state.loadUsageLogs(ctx) {
		e.usage.Append(entry)
	}
	e.analytics.restore(e.state.loadAnalytics(ctx))
	return e
}

// Rank scores the candidates and attaches each template's current
// improvement suggestions.
func (e *Engine) Rank(candidates []internal.TemplateCandidate, fields []internal.ExtractedField, baseConfidence map[string]float64) []internal.MatchResult {
	results := e.matcher.Rank(candidates, fields, baseConfidence)

	e.mu.RLock()
	defer e.mu.RUnlock()
	for i := range results {
		results[i].ImprovementSuggestions = Suggestions(e.analytics.templates[results[i].TemplateID])
	}
	return results
}

// RecordUsage appends the entry to the usage log and folds it into the
// template analytics. Missing id and timestamp are filled in and scores are
// clamped to [0,1], NaN counting as 0. A persist
// failure is returned, but the in-memory state keeps the update.
func (e *Engine) RecordUsage(ctx context.Context, entry internal.UsageLogEntry) (internal.UsageLogEntry, error) {
	if entry.TemplateID == "" {
		return entry, ErrMissingTemplateID
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = e.now().UTC().Format(time.RFC3339Nano)
	}
	entry.ExtractionAccuracy = util.Clamp(entry.ExtractionAccuracy, 0, 1)
	if entry.FieldAccuracies != nil {
		records := make([]internal.FieldAccuracyRecord, len(entry.FieldAccuracies))
		for i, record := range entry.FieldAccuracies {
			record.ConfidenceScore = util.Clamp(record.ConfidenceScore, 0, 1)
			records[i] = record
		}
		entry.FieldAccuracies = records
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.usage.Append(entry)
	e.analytics.Update(entry.TemplateID, entry)
	return entry, e.persistLocked(ctx)
}

// RecordFeedback attaches late user feedback to the newest usage of the
// template for the document. It reports false when no usage matches.
func (e *Engine) RecordFeedback(ctx context.Context, templateID, documentName string, feedback internal.UserFeedback, correctedFieldIDs []string) (bool, error) {
	if !feedback.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidFeedback, feedback)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.usage.ApplyFeedback(templateID, documentName, feedback, correctedFieldIDs) {
		return false, nil
	}
	return true, e.persistLocked(ctx)
}

func (e *Engine) Threshold(templateID string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Threshold(e.analytics.templates[templateID])
}

func (e *Engine) Suggestions(templateID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Suggestions(e.analytics.templates[templateID])
}

// GetAnalytics returns a copy of the template's analytics or nil.
func (e *Engine) GetAnalytics(templateID string) *internal.TemplateAnalytics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.analytics.Get(templateID)
}

func (e *Engine) UsageLog() []internal.UsageLogEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.usage.All()
}

func (e *Engine) Summaries() []internal.TemplateSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.analytics.TemplateIDs()
	out := make([]internal.TemplateSummary, 0, len(ids))
	for _, id := range ids {
		stats := e.analytics.templates[id]
		out = append(out, internal.TemplateSummary{
			TemplateID:      id,
			UsageCount:      stats.UsageCount,
			AverageAccuracy: stats.AverageAccuracy,
			Threshold:       Threshold(stats),
			SuggestionCount: len(Suggestions(stats)),
		})
	}
	return out
}

// ProcessDocument ranks the candidates and records one usage for the best
// one. Nothing is recorded when there are no candidates.
func (e *Engine) ProcessDocument(ctx context.Context, doc Document) (ProcessResult, error) {
	start := time.Now()
	ranking := e.Rank(doc.Candidates, doc.Fields, doc.BaseConfidence)
	if len(ranking) == 0 {
		return ProcessResult{Ranking: ranking, Threshold: DefaultThreshold}, nil
	}

	best := ranking[0]
	threshold := e.Threshold(best.TemplateID)

	var candidate internal.TemplateCandidate
	for _, c := range doc.Candidates {
		if c.ID == best.TemplateID {
			candidate = c
			break
		}
	}

	entry := internal.UsageLogEntry{
		TemplateID:         best.TemplateID,
		DocumentName:       doc.Name,
		ExtractionAccuracy: e.matcher.ExtractionAccuracy(doc.Fields),
		FieldAccuracies:    fieldAccuracies(candidate, e.matcher.MatchFields(candidate, pipeline.NormalizeFields(doc.Fields)), doc.Fields),
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
	}
	recorded, err := e.RecordUsage(ctx, entry)
	result := ProcessResult{
		Ranking:   ranking,
		Threshold: threshold,
		Accepted:  best.Confidence >= threshold,
		Usage:     &recorded,
	}
	return result, err
}

func fieldAccuracies(candidate internal.TemplateCandidate, matches []internal.FieldMatchResult, fields []internal.ExtractedField) []internal.FieldAccuracyRecord {
	labels := make(map[string]string, len(candidate.Fields))
	for _, spec := range candidate.Fields {
		labels[spec.ID] = spec.Label
	}

	out := make([]internal.FieldAccuracyRecord, 0, len(matches))
	for _, match := range matches {
		record := internal.FieldAccuracyRecord{
			FieldID:            match.TemplateFieldID,
			FieldLabel:         labels[match.TemplateFieldID],
			ExtractedCorrectly: match.IsSemanticMatch,
		}
		if match.ExtractedFieldID != nil && *match.ExtractedFieldID < len(fields) {
			record.ConfidenceScore = fields[*match.ExtractedFieldID].Confidence
		}
		out = append(out, record)
	}
	return out
}

func (e *Engine) persistLocked(ctx context.Context) error {
	if err := e.state.save(ctx, e.usage.All(), e.analytics.snapshot()); err != nil {
		e.logger.Printf("warning: persist learning state: %v", err)
		return err
	}
	return nil
}

// AllAnalytics returns copies of every template's analytics, sorted by id.
func (e *Engine) AllAnalytics() []*internal.TemplateAnalytics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.analytics.TemplateIDs()
	out := make([]*internal.TemplateAnalytics, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.analytics.Get(id))
	}
	return out
}
