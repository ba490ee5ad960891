package reporter

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"docmatch/internal"
	"docmatch/internal/config"
	"docmatch/internal/pipeline"
)

// Source is the read side of the learning engine.
type Source interface {
	Summaries() []internal.TemplateSummary
	AllAnalytics() []*internal.TemplateAnalytics
}

// Service periodically exports the learning analytics to XLSX.
type Service struct {
	src      Source
	cfg      config.Config
	schedule cron.Schedule
	logger   *log.Logger
	now      func() time.Time
}

// NewService parses cfg.ReportSchedule: five cron fields or a descriptor
// such as @hourly or @every 10m.
func NewService(src Source, cfg config.Config, logger *log.Logger) (*Service, error) {
	spec := strings.TrimSpace(cfg.ReportSchedule)
	if spec == "" {
		return nil, fmt.Errorf("report schedule is empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{src: src, cfg: cfg, schedule: schedule, logger: logger, now: time.Now}, nil
}

// Run exports on every schedule tick until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.ReportOnStart {
		if _, err := s.RunOnce(); err != nil {
			s.logger.Printf("report cycle error: %v", err)
		}
	}

	for {
		now := s.now()
		next := s.schedule.Next(now)
		s.logger.Printf("next analytics report at %s", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(next.Sub(now)):
		}

		if _, err := s.RunOnce(); err != nil {
			s.logger.Printf("report cycle error: %v", err)
		}
	}
}

// RunOnce writes one report and returns its path.
func (s *Service) RunOnce() (string, error) {
	summaries := s.src.Summaries()
	filename := fmt.Sprintf("analytics_%s.xlsx", s.now().UTC().Format("20060102T150405Z"))
	outputPath := filepath.Join(s.cfg.OutputDir, "reports", filename)
	if err := pipeline.ExportAnalyticsXLSX(summaries, s.src.AllAnalytics(), outputPath); err != nil {
		return "", err
	}
	s.logger.Printf("report done templates=%d output=%s", len(summaries), outputPath)
	return outputPath, nil
}
