package rankcrawl

import (
	"context"
	"time"
)

// RankEntry is the visit count of a single domain.
type RankEntry struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// StopReason records why a crawl run ended.
type StopReason string

// Stop reasons, in the order a report prefers them when several apply.
const (
	StopCanceled StopReason = "canceled"
	StopSentinel StopReason = "sentinel"
	StopBudget   StopReason = "budget"
	StopDrained  StopReason = "drained"
)

// Report is the outcome of a finished crawl run.
// Entries are ordered by the first time each domain was seen.
type Report struct {
	ID         string      `json:"id"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Visits     int         `json:"visits"`
	Failed     int         `json:"failed"`
	Reason     StopReason  `json:"reason"`
	Entries    []RankEntry `json:"entries"`
	Digest     string      `json:"digest"`
}

// Validate returns an error if the report contains invalid fields.
func (r *Report) Validate() error {
	if r.Reason == "" {
		return Errorf(EINVALID, "report stop reason required")
	}
	for _, e := range r.Entries {
		if e.Count < 1 {
			return Errorf(EINVALID, "domain %q has non-positive count %d", e.Domain, e.Count)
		}
	}
	if total := r.TotalVisits(); total > r.Visits {
		return Errorf(EINVALID, "entries count %d visits, more than the %d recorded", total, r.Visits)
	}
	return nil
}

// TotalVisits returns the sum of all entry counts.
func (r *Report) TotalVisits() int {
	var n int
	for _, e := range r.Entries {
		n += e.Count
	}
	return n
}

// ReportService represents a service for archiving finished reports.
type ReportService interface {
	// CreateReport stores a report and assigns its ID.
	CreateReport(ctx context.Context, report *Report) error

	// FindReportByID retrieves a report with its entries.
	// Returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id string) (*Report, error)

	// FindReports retrieves reports matching the filter, newest first.
	// Entries are not loaded.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, error)
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	Reason *StopReason `json:"reason"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
