package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rankcrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Reports rankcrawl.ReportService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr"`

	Crawl   CrawlCmd   `cmd:"" help:"Run a crawl and print the domain rankings"`
	History HistoryCmd `cmd:"" help:"List archived reports or show one"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Workers         int           `short:"w" env:"RANKCRAWL_WORKERS" default:"4" help:"Number of workers"`
	QueueCapacity   int           `short:"q" name:"queue-capacity" env:"RANKCRAWL_QUEUE_CAPACITY" default:"10" help:"Maximum number of queued URLs"`
	Budget          int           `short:"b" env:"RANKCRAWL_BUDGET" default:"20" help:"Maximum number of visits across all workers"`
	Seed            []string      `short:"s" help:"Seed URL (repeatable, default: built-in seeds)"`
	Sitemap         string        `type:"existingfile" help:"Read additional seed URLs from a local sitemap XML file"`
	Sentinel        string        `default:"http://stop.com" help:"URL that stops the worker visiting it (empty to disable)"`
	FollowUp        []string      `name:"follow-up" default:"http://example.com/page" help:"URL proposed after every simulated visit (repeatable)"`
	Pages           string        `type:"existingdir" help:"Serve visits from a directory mirror (host/path) and follow links found in the HTML"`
	VisitDelay      time.Duration `default:"100ms" help:"Duration of a simulated visit"`
	Rate            float64       `help:"Maximum visits started per second (0 for unlimited)"`
	Retry           bool          `help:"Retry failed visits with backoff"`
	DedupeURLs      bool          `name:"dedupe-urls" help:"Enqueue each follow-up URL at most once"`
	MaxDomains      int           `help:"Maximum number of ranked domains (0 for unbounded)"`
	Timeout         time.Duration `help:"Stop the crawl after this long (0 for no limit)"`
	ShutdownTimeout time.Duration `default:"5s" help:"How long to wait for workers after the crawl is stopped"`
	Save            bool          `help:"Archive the report in the database"`
	Out             string        `type:"path" help:"Also write the rankings to this file"`
	Quiet           bool          `help:"Do not print per-visit progress"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID     string `arg:"" optional:"" help:"Report ID to show"`
	Reason string `help:"Only list reports with this stop reason (budget, sentinel, drained, canceled)"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of reports to list"`
}
