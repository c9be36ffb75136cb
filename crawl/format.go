package crawl

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rankcrawl"
)

// ComputeDigest hashes the rankings with xxhash. Two runs that ranked the
// same domains with the same counts in the same order share a digest.
func ComputeDigest(entries []rankcrawl.RankEntry) string {
	d := xxhash.New()
	for _, e := range entries {
		_, _ = d.WriteString(e.Domain)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(strconv.Itoa(e.Count))
		_, _ = d.WriteString("\n")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	switch {
	case maxLen <= 0:
		return ""
	case len(url) <= maxLen:
		return url
	case maxLen < 4:
		return url[:maxLen]
	}
	return "..." + url[len(url)-maxLen+3:]
}
