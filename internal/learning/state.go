package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"docmatch/internal"
	"docmatch/internal/storage"
)

const (
	KeyUsageLogs         = "usage_logs"
	KeyTemplateAnalytics = "template_analytics"
)

// stateStore does the JSON (de)serialization between the engine and the KV.
// Loads never fail: a missing, unreadable or corrupt value becomes an empty
// collection and a warning.
type stateStore struct {
	kv     storage.KV
	logger *log.Logger
}

func (s *stateStore) loadUsageLogs(ctx context.Context) []internal.UsageLogEntry {
	var entries []internal.UsageLogEntry
	if !s.load(ctx, KeyUsageLogs, &entries) {
		return nil
	}
	return entries
}

func (s *stateStore) loadAnalytics(ctx context.Context) map[string]*internal.TemplateAnalytics {
	records := map[string]*internal.TemplateAnalytics{}
	if !s.load(ctx, KeyTemplateAnalytics, &records) {
		return map[string]*internal.TemplateAnalytics{}
	}
	return records
}

func (s *stateStore) load(ctx context.Context, key string, dst any) bool {
	blob, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Printf("warning: read %s failed, starting empty: %v", key, err)
		return false
	}
	if !ok || len(blob) == 0 {
		return false
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		s.logger.Printf("warning: %s is corrupt, starting empty: %v", key, err)
		return false
	}
	return true
}

func (s *stateStore) save(ctx context.Context, entries []internal.UsageLogEntry, analytics map[string]*internal.TemplateAnalytics) error {
	logBlob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyUsageLogs, err)
	}
	analyticsBlob, err := json.Marshal(analytics)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyTemplateAnalytics, err)
	}
	if err := s.kv.Put(ctx, KeyUsageLogs, logBlob); err != nil {
		return fmt.Errorf("write %s: %w", KeyUsageLogs, err)
	}
	if err := s.kv.Put(ctx, KeyTemplateAnalytics, analyticsBlob); err != nil {
		return fmt.Errorf("write %s: %w", KeyTemplateAnalytics, err)
	}
	return nil
}
