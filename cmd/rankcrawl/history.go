package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/rankcrawl"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		return c.show(deps)
	}

	filter := rankcrawl.ReportFilter{Limit: c.Limit}
	if c.Reason != "" {
		reason := rankcrawl.StopReason(c.Reason)
		switch reason {
		case rankcrawl.StopBudget, rankcrawl.StopSentinel, rankcrawl.StopDrained, rankcrawl.StopCanceled:
		default:
			err := rankcrawl.Errorf(rankcrawl.EINVALID, "unknown stop reason %q", c.Reason)
			fmt.Fprintf(deps.Stderr, "error: %s\n", rankcrawl.ErrorMessage(err))
			return err
		}
		filter.Reason = &reason
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankcrawl.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'rankcrawl crawl --save' to archive one.")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d visits  %-8s  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Visits, r.Reason, r.Digest)
	}

	return nil
}

func (c *HistoryCmd) show(deps *Dependencies) error {
	report, err := deps.Reports.FindReportByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Report %s\n", report.ID)
	fmt.Fprintf(deps.Stdout, "  started:  %s\n", report.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(deps.Stdout, "  duration: %s\n", report.FinishedAt.Sub(report.StartedAt))
	fmt.Fprintf(deps.Stdout, "  digest:   %s\n\n", report.Digest)
	fmt.Fprint(deps.Stdout, rankcrawl.FormatRankings(report.Entries))
	fmt.Fprintln(deps.Stdout, rankcrawl.FormatSummary(report))
	return nil
}
