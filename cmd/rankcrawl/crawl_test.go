package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rankcrawl"
	main "github.com/fwojciec/rankcrawl/cmd/rankcrawl"
	"github.com/fwojciec/rankcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCrawlCmd returns a command with the flag defaults and no visit delay.
func newCrawlCmd() *main.CrawlCmd {
	return &main.CrawlCmd{
		Workers:         rankcrawl.DefaultWorkerCount,
		QueueCapacity:   rankcrawl.DefaultQueueCapacity,
		Budget:          rankcrawl.DefaultVisitBudget,
		Sentinel:        rankcrawl.DefaultSentinelURL,
		FollowUp:        []string{rankcrawl.DefaultFollowUpURL},
		ShutdownTimeout: time.Second,
	}
}

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints rankings for the default seeds", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()

		err := newCrawlCmd().Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "--- Domain Rankings ---")
		assert.Contains(t, output, "example.com: ")
		assert.Contains(t, output, "another.com: ")
		assert.Contains(t, output, "stop.com: ")
		assert.Contains(t, output, "Parsed Domain: stop.com")
		assert.Contains(t, output, "stopped: sentinel")
	})

	t.Run("prints no progress when quiet", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		cmd := newCrawlCmd()
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.NotContains(t, stdout.String(), "Worker ")
		assert.Contains(t, stdout.String(), "--- Domain Rankings ---")
	})

	t.Run("uses given seeds", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		cmd := newCrawlCmd()
		cmd.Seed = []string{"http://only.com"}
		cmd.FollowUp = nil
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "\n--- Domain Rankings ---\nonly.com: 1 visits\n1 visits, 0 failed, 1 domains, stopped: drained\n", stdout.String())
	})

	t.Run("loads seeds from a sitemap", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sitemap.xml")
		require.NoError(t, os.WriteFile(path, []byte(`<urlset>
  <url><loc>http://from-sitemap.com/</loc></url>
</urlset>`), 0644))

		deps, stdout, _ := newDeps()
		cmd := newCrawlCmd()
		cmd.Seed = []string{"http://flag.com"}
		cmd.Sitemap = path
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "flag.com: ")
		assert.Contains(t, stdout.String(), "from-sitemap.com: ")
	})

	t.Run("ignores empty follow-up urls", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		cmd := newCrawlCmd()
		cmd.Seed = []string{"http://only.com"}
		cmd.FollowUp = []string{""}
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "\n--- Domain Rankings ---\nonly.com: 1 visits\n1 visits, 0 failed, 1 domains, stopped: drained\n", stdout.String())
	})

	t.Run("reports a missing sitemap", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		cmd := newCrawlCmd()
		cmd.Sitemap = filepath.Join(t.TempDir(), "missing.xml")

		err := cmd.Run(deps)

		assert.Equal(t, rankcrawl.EINVALID, rankcrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "reading sitemap")
		assert.Contains(t, stderr.String(), "missing.xml")
		assert.NotContains(t, stderr.String(), "Internal error.")
	})

	t.Run("reports a malformed sitemap", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sitemap.xml")
		require.NoError(t, os.WriteFile(path, []byte("<urlset><url>"), 0644))
		deps, _, stderr := newDeps()
		cmd := newCrawlCmd()
		cmd.Sitemap = path

		err := cmd.Run(deps)

		assert.Equal(t, rankcrawl.EINVALID, rankcrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "reading sitemap")
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		cmd := newCrawlCmd()
		cmd.Workers = 0

		err := cmd.Run(deps)

		assert.Equal(t, rankcrawl.EINVALID, rankcrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "worker count must be at least 1")
	})

	t.Run("crawls a directory mirror", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		pages := map[string]string{
			"example.com/index.html": `<a href="/about">About</a><a href="http://linked.com/">Linked</a>`,
			"linked.com/index.html":  `<p>no links</p>`,
		}
		for rel, html := range pages {
			full := filepath.Join(root, filepath.FromSlash(rel))
			require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
			require.NoError(t, os.WriteFile(full, []byte(html), 0644))
		}

		deps, stdout, stderr := newDeps()
		cmd := newCrawlCmd()
		cmd.Seed = []string{"http://example.com/", "http://missing.com/"}
		cmd.Pages = root

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "example.com: 1 visits")
		assert.Contains(t, stdout.String(), "linked.com: 1 visits")
		assert.Contains(t, stdout.String(), "1 failed")
		assert.Contains(t, stderr.String(), "skip http://missing.com/")
	})

	t.Run("writes rankings to a file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "rankings.txt")
		deps, _, _ := newDeps()
		cmd := newCrawlCmd()
		cmd.Out = out
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.NoError(t, err)
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(b), "--- Domain Rankings ---\n"))
	})

	t.Run("saves the report when asked", func(t *testing.T) {
		t.Parallel()

		var saved *rankcrawl.Report
		deps, stdout, _ := newDeps()
		deps.Reports = &mock.ReportService{
			CreateReportFn: func(ctx context.Context, report *rankcrawl.Report) error {
				report.ID = "report-123"
				saved = report
				return nil
			},
		}
		cmd := newCrawlCmd()
		cmd.Save = true
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, rankcrawl.StopSentinel, saved.Reason)
		assert.Contains(t, stdout.String(), "Saved report report-123")
	})

	t.Run("returns error when saving fails", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Reports = &mock.ReportService{
			CreateReportFn: func(ctx context.Context, report *rankcrawl.Report) error {
				return errors.New("disk full")
			},
		}
		cmd := newCrawlCmd()
		cmd.Save = true
		cmd.Quiet = true

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("requires an archive to save", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		cmd := newCrawlCmd()
		cmd.Save = true

		err := cmd.Run(deps)

		assert.Equal(t, rankcrawl.EINVALID, rankcrawl.ErrorCode(err))
	})
}
