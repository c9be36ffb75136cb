// Package etree reads crawl seed URLs from sitemap XML files.
package etree

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/rankcrawl"
)

// LoadSitemap reads a sitemap document and returns its URLs in document
// order, without duplicates.
//
// A <urlset> yields the <loc> of every <url>. A <sitemapindex> yields the
// <loc> of every <sitemap>; nested sitemaps are not followed since they
// cannot be loaded without network access.
func LoadSitemap(r io.Reader) ([]string, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "empty sitemap XML")
	}

	switch root.Tag {
	case "urlset":
		return locs(root, "url"), nil
	case "sitemapindex":
		return locs(root, "sitemap"), nil
	default:
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "unexpected sitemap root <%s>", root.Tag)
	}
}

// locs collects the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	seen := make(map[string]bool)
	urls := []string{}
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
