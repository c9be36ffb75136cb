package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "root becomes index",
			url:  "http://example.com",
			want: "example.com/index.html",
		},
		{
			name: "root slash becomes index",
			url:  "http://example.com/",
			want: "example.com/index.html",
		},
		{
			name: "trailing slash becomes index",
			url:  "http://example.com/docs/",
			want: "example.com/docs/index.html",
		},
		{
			name: "file path kept as is",
			url:  "http://example.com/page",
			want: "example.com/page",
		},
		{
			name: "ignores query and fragment",
			url:  "https://example.com/a/b.html?x=1#top",
			want: "example.com/a/b.html",
		},
		{
			name: "keeps port in host directory",
			url:  "http://localhost:8080/x",
			want: "localhost:8080/x",
		},
		{
			name: "dot segments stay inside host",
			url:  "http://example.com/../../etc/passwd",
			want: "example.com/etc/passwd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLToPath_rejects_url_without_host(t *testing.T) {
	t.Parallel()

	_, err := fs.URLToPath("another.com/x")

	assert.Equal(t, rankcrawl.EINVALID, rankcrawl.ErrorCode(err))
}

// writePage creates a file below root with the given content.
func writePage(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePage(t, root, "example.com/index.html", "<h1>home</h1>")
	writePage(t, root, "example.com/page", "<p>page</p>")
	writePage(t, root, "example.com/docs/index.html", "<p>docs</p>")

	f := fs.NewFetcher(root)
	ctx := context.Background()

	t.Run("reads root index", func(t *testing.T) {
		t.Parallel()

		body, err := f.Fetch(ctx, "http://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<h1>home</h1>", body)
	})

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		body, err := f.Fetch(ctx, "http://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<p>page</p>", body)
	})

	t.Run("reads directory index without trailing slash", func(t *testing.T) {
		t.Parallel()

		body, err := f.Fetch(ctx, "http://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<p>docs</p>", body)
	})

	t.Run("returns not found for missing page", func(t *testing.T) {
		t.Parallel()

		_, err := f.Fetch(ctx, "http://another.com/")

		assert.Equal(t, rankcrawl.ENOTFOUND, rankcrawl.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.Fetch(canceled, "http://example.com")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
