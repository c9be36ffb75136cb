package mock

import (
	"context"

	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of rankcrawl.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *rankcrawl.Report) error
	FindReportByIDFn func(ctx context.Context, id string) (*rankcrawl.Report, error)
	FindReportsFn    func(ctx context.Context, filter rankcrawl.ReportFilter) ([]*rankcrawl.Report, error)
}

func (s *ReportService) CreateReport(ctx context.Context, report *rankcrawl.Report) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*rankcrawl.Report, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter rankcrawl.ReportFilter) ([]*rankcrawl.Report, error) {
	return s.FindReportsFn(ctx, filter)
}
