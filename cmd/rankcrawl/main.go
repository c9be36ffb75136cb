package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/sqlite"
	rcslog "github.com/fwojciec/rankcrawl/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database, opened only by commands that read or write reports.
	DB *sqlite.DB

	// ReportService for end-to-end testing.
	ReportService rankcrawl.ReportService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rankcrawl"),
		kong.Description("Crawl URLs with a pool of workers and rank the domains visited"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rankcrawl --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd == "history" || (cmd == "crawl" && cli.Crawl.Save) {
		if err := m.openReports(deps, stderr); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// openReports wires the report archive into deps, opening the database
// unless a ReportService was injected.
func (m *Main) openReports(deps *Dependencies, stderr io.Writer) error {
	if m.ReportService == nil {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set RANKCRAWL_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		if version, err := m.DB.SchemaVersion(deps.Ctx); err == nil {
			deps.Logger.Debug("database opened", "path", m.DBPath, "schema_version", version)
		}
		m.ReportService = sqlite.NewReportService(m.DB)
	}

	deps.Reports = m.ReportService
	if deps.Logger.Enabled(deps.Ctx, slog.LevelDebug) {
		deps.Reports = rcslog.NewLoggingReportService(deps.Reports, deps.Logger)
	}
	return nil
}

// newLogger returns a text logger on w. Verbose output includes debug
// records; otherwise only warnings and errors are written.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("RANKCRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "rankcrawl.db"
	}
	dir := filepath.Join(home, ".rankcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "rankcrawl.db")
}
