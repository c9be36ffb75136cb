// Package fs serves crawl visits from a local directory tree and writes
// crawl reports to disk.
package fs

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rankcrawl"
)

// IndexFile is read for URLs that name a directory.
const IndexFile = "index.html"

// Ensure Fetcher implements rankcrawl.Fetcher at compile time.
var _ rankcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher visits URLs by reading files from a mirror directory laid out as
// Root/host/path. It never touches the network.
type Fetcher struct {
	Root string
}

// NewFetcher creates a Fetcher that reads pages below root.
func NewFetcher(root string) *Fetcher {
	return &Fetcher{Root: root}
}

// URLToPath converts a URL to a slash-separated path relative to the mirror
// root. Example: http://example.com/docs/ → example.com/docs/index.html
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rankcrawl.Errorf(rankcrawl.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", rankcrawl.Errorf(rankcrawl.EINVALID, "URL %q has no host", rawURL)
	}

	// Cleaning a rooted path keeps ".." from escaping the host directory.
	p := path.Clean("/" + u.Path)
	if p == "/" || strings.HasSuffix(u.Path, "/") {
		p = path.Join(p, IndexFile)
	}
	return u.Host + p, nil
}

// Fetch returns the contents of the file mirrored for url.
// Returns ENOTFOUND if no such file exists.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := URLToPath(url)
	if err != nil {
		return "", err
	}
	full := filepath.Join(f.Root, filepath.FromSlash(rel))

	if info, err := os.Stat(full); err == nil && info.IsDir() {
		full = filepath.Join(full, IndexFile)
	}

	b, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return "", rankcrawl.Errorf(rankcrawl.ENOTFOUND, "page not found: %s", url)
	} else if err != nil {
		return "", err
	}
	return string(b), nil
}
