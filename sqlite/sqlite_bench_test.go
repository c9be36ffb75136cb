package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateReport measures archiving a report with many ranked domains.
func BenchmarkCreateReport(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewReportService(db)
	entries := make([]rankcrawl.RankEntry, 100)
	visits := 0
	for i := range entries {
		entries[i] = rankcrawl.RankEntry{Domain: fmt.Sprintf("site%d.com", i), Count: i + 1}
		visits += i + 1
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report := &rankcrawl.Report{
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
			Visits:     visits,
			Reason:     rankcrawl.StopBudget,
			Entries:    entries,
		}
		require.NoError(b, svc.CreateReport(ctx, report))
	}
}
