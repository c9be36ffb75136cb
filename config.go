package rankcrawl

import "time"

// Defaults for a crawl. They reproduce the original fixed-size setup:
// four workers, a ten-slot queue and twenty visits.
const (
	DefaultWorkerCount     = 4
	DefaultQueueCapacity   = 10
	DefaultVisitBudget     = 20
	DefaultSentinelURL     = "http://stop.com"
	DefaultFollowUpURL     = "http://example.com/page"
	DefaultVisitDelay      = 100 * time.Millisecond
	DefaultShutdownTimeout = 5 * time.Second
)

// DefaultSeedURLs returns the seed list used when none is configured.
func DefaultSeedURLs() []string {
	return []string{"http://example.com", "http://another.com", DefaultSentinelURL}
}

// Config holds the parameters of a single crawl run.
type Config struct {
	WorkerCount   int
	QueueCapacity int
	VisitBudget   int
	SeedURLs      []string

	// SentinelURL stops the worker that visits it. Empty disables the check.
	SentinelURL string

	// MaxDomains caps the rank table. Zero means unbounded.
	MaxDomains int

	// DedupeURLs skips follow-up URLs that were already enqueued once.
	DedupeURLs bool

	// Timeout bounds the whole run. Zero means no deadline.
	Timeout time.Duration

	// ShutdownTimeout bounds how long the run waits for workers after
	// cancellation. Zero waits indefinitely.
	ShutdownTimeout time.Duration

	// RetryDelays are the pauses between fetch attempts.
	// Nil means a single attempt.
	RetryDelays []time.Duration
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     DefaultWorkerCount,
		QueueCapacity:   DefaultQueueCapacity,
		VisitBudget:     DefaultVisitBudget,
		SeedURLs:        DefaultSeedURLs(),
		SentinelURL:     DefaultSentinelURL,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	if c.WorkerCount < 1 {
		return Errorf(EINVALID, "worker count must be at least 1, got %d", c.WorkerCount)
	}
	if c.QueueCapacity < 1 {
		return Errorf(EINVALID, "queue capacity must be at least 1, got %d", c.QueueCapacity)
	}
	if c.VisitBudget < 0 {
		return Errorf(EINVALID, "visit budget must not be negative, got %d", c.VisitBudget)
	}
	if len(c.SeedURLs) == 0 {
		return Errorf(EINVALID, "at least one seed URL required")
	}
	if len(c.SeedURLs) > c.QueueCapacity {
		return Errorf(EINVALID, "%d seed URLs do not fit a queue of capacity %d", len(c.SeedURLs), c.QueueCapacity)
	}
	if c.MaxDomains < 0 {
		return Errorf(EINVALID, "max domains must not be negative, got %d", c.MaxDomains)
	}
	if c.Timeout < 0 || c.ShutdownTimeout < 0 {
		return Errorf(EINVALID, "timeouts must not be negative")
	}
	for _, d := range c.RetryDelays {
		if d < 0 {
			return Errorf(EINVALID, "retry delays must not be negative")
		}
	}
	return nil
}
