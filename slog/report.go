package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rankcrawl"
)

// Ensure LoggingReportService implements rankcrawl.ReportService.
var _ rankcrawl.ReportService = (*LoggingReportService)(nil)

// LoggingReportService wraps a ReportService with logging.
type LoggingReportService struct {
	next   rankcrawl.ReportService
	logger *slog.Logger
}

// NewLoggingReportService creates a new LoggingReportService.
func NewLoggingReportService(next rankcrawl.ReportService, logger *slog.Logger) *LoggingReportService {
	return &LoggingReportService{next: next, logger: logger}
}

func (s *LoggingReportService) CreateReport(ctx context.Context, report *rankcrawl.Report) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create report",
			"id", report.ID,
			"domains", len(report.Entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateReport(ctx, report)
}

func (s *LoggingReportService) FindReportByID(ctx context.Context, id string) (report *rankcrawl.Report, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find report",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindReportByID(ctx, id)
}

func (s *LoggingReportService) FindReports(ctx context.Context, filter rankcrawl.ReportFilter) (reports []*rankcrawl.Report, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find reports",
			"count", len(reports),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindReports(ctx, filter)
}
