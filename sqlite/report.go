package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/rankcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ rankcrawl.ReportService = (*ReportService)(nil)

// ReportService implements rankcrawl.ReportService using SQLite.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport stores a report and its entries in a single transaction.
// The report is assigned a new ID.
func (s *ReportService) CreateReport(ctx context.Context, report *rankcrawl.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reports (id, started_at, finished_at, visits, failed, reason, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, report.StartedAt.UTC().Format(time.RFC3339Nano), report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.Visits, report.Failed, string(report.Reason), report.Digest); err != nil {
		return err
	}

	for i, e := range report.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rank_entries (report_id, position, domain, count)
			VALUES (?, ?, ?, ?)
		`, id, i, e.Domain, e.Count); err != nil {
			return fmt.Errorf("insert entry %q: %w", e.Domain, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	report.ID = id
	return nil
}

// FindReportByID retrieves a report with its entries in first-seen order.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*rankcrawl.Report, error) {
	report, err := scanReport(s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, visits, failed, reason, digest
		FROM reports
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, rankcrawl.Errorf(rankcrawl.ENOTFOUND, "report not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, count
		FROM rank_entries
		WHERE report_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report.Entries = []rankcrawl.RankEntry{}
	for rows.Next() {
		var e rankcrawl.RankEntry
		if err := rows.Scan(&e.Domain, &e.Count); err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

// FindReports retrieves reports matching the filter, newest first.
func (s *ReportService) FindReports(ctx context.Context, filter rankcrawl.ReportFilter) ([]*rankcrawl.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, started_at, finished_at, visits, failed, reason, digest FROM reports WHERE 1=1")

	if filter.Reason != nil {
		query.WriteString(" AND reason = ?")
		args = append(args, string(*filter.Reason))
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*rankcrawl.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*rankcrawl.Report, error) {
	var report rankcrawl.Report
	var startedAt, finishedAt, reason string

	if err := row.Scan(&report.ID, &startedAt, &finishedAt, &report.Visits, &report.Failed,
		&reason, &report.Digest); err != nil {
		return nil, err
	}
	report.Reason = rankcrawl.StopReason(reason)

	var err error
	if report.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if report.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &report, nil
}
