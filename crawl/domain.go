package crawl

import "strings"

// ParseDomain returns the authority part of a URL: everything after a leading
// "scheme://" up to the next "/". Input without a scheme is treated as
// host and path, and input without a path yields the whole remainder.
// ParseDomain never fails; empty input yields an empty domain.
func ParseDomain(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 && !strings.Contains(rest[:i], "/") {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}
