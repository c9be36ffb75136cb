// Package goquery extracts follow-up links from fetched HTML pages.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rankcrawl"
)

// DefaultSelector matches every anchor with an href.
const DefaultSelector = "a[href]"

var _ rankcrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor returns the http(s) links of a page as absolute URLs,
// in document order, without duplicates.
type LinkExtractor struct {
	// Selector picks the anchors to read. Defaults to DefaultSelector.
	Selector string

	// SameHost drops links that leave the host of the page.
	SameHost bool
}

// NewLinkExtractor creates an extractor that reads every anchor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{Selector: DefaultSelector}
}

// Extract parses body as HTML and resolves its links against pageURL.
// Fragments are stripped and links pointing back at the page are skipped.
func (e *LinkExtractor) Extract(ctx context.Context, pageURL, body string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	selector := e.Selector
	if selector == "" {
		selector = DefaultSelector
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if e.SameHost && resolved.Host != base.Host {
			return
		}

		s := resolved.String()
		if seen[s] {
			return
		}
		seen[s] = true
		links = append(links, s)
	})

	return links, nil
}

// resolveURL resolves href against base with the fragment stripped.
// Returns nil if href cannot be parsed or resolves to the base page itself.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return nil
	}
	return resolved
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
