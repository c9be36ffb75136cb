package rankcrawl

import (
	"fmt"
	"strings"
)

// FormatRankings renders entries as one "domain: N visits" line each,
// under a heading, in the order given.
func FormatRankings(entries []RankEntry) string {
	var b strings.Builder
	b.WriteString("--- Domain Rankings ---\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %d visits\n", e.Domain, e.Count)
	}
	return b.String()
}

// FormatSummary renders the one-line summary printed after the rankings.
func FormatSummary(r *Report) string {
	return fmt.Sprintf("%d visits, %d failed, %d domains, stopped: %s",
		r.Visits, r.Failed, len(r.Entries), r.Reason)
}
