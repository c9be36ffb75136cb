package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/crawl"
	"github.com/fwojciec/rankcrawl/etree"
	"github.com/fwojciec/rankcrawl/fs"
	"github.com/fwojciec/rankcrawl/goquery"
	rcslog "github.com/fwojciec/rankcrawl/slog"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := c.config()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankcrawl.ErrorMessage(err))
		return err
	}

	if c.Save && deps.Reports == nil {
		err := rankcrawl.Errorf(rankcrawl.EINVALID, "no report archive available")
		fmt.Fprintf(deps.Stderr, "error: %s\n", rankcrawl.ErrorMessage(err))
		return err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	crawler := &crawl.Crawler{
		Config: cfg,
		Logger: logger,
	}
	if c.Pages != "" {
		crawler.Fetcher = fs.NewFetcher(c.Pages)
		crawler.Extractor = goquery.NewLinkExtractor()
	} else {
		crawler.Fetcher = &crawl.SimulatedFetcher{Delay: c.VisitDelay}
		followUps := slices.DeleteFunc(slices.Clone(c.FollowUp), func(u string) bool {
			return strings.TrimSpace(u) == ""
		})
		if len(followUps) > 0 {
			crawler.Extractor = crawl.NewFollowUpExtractor(followUps...)
		}
	}
	if logger.Enabled(deps.Ctx, slog.LevelDebug) {
		crawler.Fetcher = rcslog.NewLoggingFetcher(crawler.Fetcher, logger)
		if crawler.Extractor != nil {
			crawler.Extractor = rcslog.NewLoggingLinkExtractor(crawler.Extractor, logger)
		}
	}
	if c.Rate > 0 {
		crawler.Pacer = crawl.NewVisitPacer(c.Rate)
	}
	if !c.Quiet {
		crawler.Progress = progressPrinter(deps)
	}

	report, err := crawler.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout)
	fmt.Fprint(deps.Stdout, rankcrawl.FormatRankings(report.Entries))
	fmt.Fprintln(deps.Stdout, rankcrawl.FormatSummary(report))

	if c.Out != "" {
		if err := fs.NewReportWriter(c.Out).WriteReport(report); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", c.Out, err)
			return err
		}
	}

	if c.Save {
		if err := deps.Reports.CreateReport(deps.Ctx, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rankcrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved report %s\n", report.ID)
	}

	return nil
}

// config builds the crawl configuration from flags, loading sitemap seeds
// if a sitemap file was given.
func (c *CrawlCmd) config() (rankcrawl.Config, error) {
	cfg := rankcrawl.DefaultConfig()
	cfg.WorkerCount = c.Workers
	cfg.QueueCapacity = c.QueueCapacity
	cfg.VisitBudget = c.Budget
	cfg.SentinelURL = c.Sentinel
	cfg.MaxDomains = c.MaxDomains
	cfg.DedupeURLs = c.DedupeURLs
	cfg.Timeout = c.Timeout
	cfg.ShutdownTimeout = c.ShutdownTimeout
	if c.Retry {
		cfg.RetryDelays = crawl.DefaultRetryDelays()
	}

	seeds := append([]string(nil), c.Seed...)
	if c.Sitemap != "" {
		urls, err := loadSitemap(c.Sitemap)
		if err != nil {
			return cfg, err
		}
		seeds = append(seeds, urls...)
	}
	if len(seeds) > 0 {
		cfg.SeedURLs = seeds
	}

	return cfg, cfg.Validate()
}

func loadSitemap(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "reading sitemap %s: %v", path, err)
	}
	defer f.Close()

	urls, err := etree.LoadSitemap(f)
	if err != nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "reading sitemap %s: %s", path, rankcrawl.ErrorMessage(err))
	}
	return urls, nil
}

// progressPrinter prints one line per visit. Workers report concurrently, so
// lines are serialized.
func progressPrinter(deps *Dependencies) crawl.ProgressFunc {
	var mu sync.Mutex
	return func(event crawl.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		switch event.Type {
		case crawl.ProgressVisited:
			fmt.Fprintf(deps.Stdout, "Worker %d: Crawling URL: %s\n", event.Worker, crawl.TruncateURL(event.URL, 60))
			fmt.Fprintf(deps.Stdout, "Worker %d: Parsed Domain: %s\n", event.Worker, event.Domain)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "Worker %d: skip %s: %v\n", event.Worker, event.URL, event.Error)
		case crawl.ProgressStopped:
			if event.Error != nil {
				fmt.Fprintf(deps.Stderr, "Worker %d: stopped: %v\n", event.Worker, event.Error)
			}
		}
	}
}
