package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("resolves links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<nav><a href="/about">About</a></nav>
<main>
	<a href="page2.html">Next</a>
	<a href="http://another.com/x">Elsewhere</a>
</main>
</body>
</html>`

		links, err := goquery.NewLinkExtractor().Extract(context.Background(), "http://example.com/dir/page1.html", html)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"http://example.com/about",
			"http://example.com/dir/page2.html",
			"http://another.com/x",
		}, links)
	})

	t.Run("strips fragments and removes duplicates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/a#top">A</a><a href="/a">A again</a><a href="/a#bottom">A once more</a>`

		links, err := goquery.NewLinkExtractor().Extract(context.Background(), "http://example.com/", html)

		require.NoError(t, err)
		assert.Equal(t, []string{"http://example.com/a"}, links)
	})

	t.Run("skips non-http and self links", func(t *testing.T) {
		t.Parallel()

		html := `
<a href="#section">Anchor</a>
<a href="javascript:void(0)">JS</a>
<a href="mailto:me@example.com">Mail</a>
<a href="tel:+123">Phone</a>
<a href="ftp://files.example.com/x">FTP</a>
<a href="">Empty</a>
<a>No href</a>
<a href="http://example.com/">Self</a>
<a href="/ok">OK</a>`

		links, err := goquery.NewLinkExtractor().Extract(context.Background(), "http://example.com/", html)

		require.NoError(t, err)
		assert.Equal(t, []string{"http://example.com/ok"}, links)
	})

	t.Run("keeps only same-host links when asked", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/local">Local</a><a href="https://other.com/">Other</a><a href="http://sub.example.com/">Sub</a>`
		e := &goquery.LinkExtractor{SameHost: true}

		links, err := e.Extract(context.Background(), "http://example.com/", html)

		require.NoError(t, err)
		assert.Equal(t, []string{"http://example.com/local"}, links)
	})

	t.Run("uses custom selector", func(t *testing.T) {
		t.Parallel()

		html := `<nav><a href="/nav">Nav</a></nav><footer><a href="/footer">Footer</a></footer>`
		e := &goquery.LinkExtractor{Selector: "footer a[href]"}

		links, err := e.Extract(context.Background(), "http://example.com/", html)

		require.NoError(t, err)
		assert.Equal(t, []string{"http://example.com/footer"}, links)
	})

	t.Run("returns nothing for an empty page", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor().Extract(context.Background(), "http://example.com/", "")

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().Extract(context.Background(), "://bad", "<a href=\"/x\">x</a>")

		assert.Equal(t, rankcrawl.EINVALID, rankcrawl.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := goquery.NewLinkExtractor().Extract(ctx, "http://example.com/", "")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
