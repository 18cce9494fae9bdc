package render

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/inkfold/inkfold/internal/cache"
	"github.com/inkfold/inkfold/internal/config"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	config.AppConfig = cfg
	os.Exit(m.Run())
}

func TestRenderMarkdownClassic(t *testing.T) {
	t.Run("Headings become HTML", func(t *testing.T) {
		html := RenderMarkdownClassic([]byte("# Title\n\nbody"), "gruvbox")
		if !strings.Contains(string(html), "<h1") {
			t.Errorf("Expected h1 element, got %q", html)
		}
		if strings.Contains(string(html), "# Title") {
			t.Errorf("Expected no raw heading syntax, got %q", html)
		}
	})

	t.Run("Code blocks are highlighted", func(t *testing.T) {
		md := []byte("```go\nfunc main() {}\n```")
		html := RenderMarkdownClassic(md, "gruvbox")
		if !strings.Contains(string(html), `class="highlight"`) {
			t.Errorf("Expected highlighted code block, got %q", html)
		}
	})

	t.Run("Empty input", func(t *testing.T) {
		// Should not panic
		RenderMarkdownClassic(nil, "gruvbox")
	})
}

func TestRenderMarkdownMmark(t *testing.T) {
	html := RenderMarkdownMmark([]byte("# Title\n\nbody"), "gruvbox")
	if !strings.Contains(string(html), "<h1") {
		t.Errorf("Expected h1 element, got %q", html)
	}
}

func TestRenderMarkdownCached(t *testing.T) {
	cache.ClearRenderedMarkdownCache()

	t.Run("Caches by content hash", func(t *testing.T) {
		md := []byte("# Cached\n\ncontent")

		html1 := RenderMarkdownCached(md, "hash-1", "gruvbox")
		if len(html1) == 0 {
			t.Fatal("Expected rendered HTML, got empty")
		}

		cached, found := cache.GetRenderedMarkdown("hash-1", "gruvbox")
		if !found {
			t.Error("Expected content to be cached")
		}
		if !bytes.Equal(cached, html1) {
			t.Error("Cached HTML should match rendered HTML")
		}

		html2 := RenderMarkdownCached(md, "hash-1", "gruvbox")
		if !bytes.Equal(html1, html2) {
			t.Error("Cache hit should return identical HTML")
		}
	})

	t.Run("Empty content hash skips the cache", func(t *testing.T) {
		md := []byte("# Uncached")

		html := RenderMarkdownCached(md, "", "gruvbox")
		if len(html) == 0 {
			t.Error("Expected rendered HTML, got empty")
		}
	})
}

func TestHighlightCode(t *testing.T) {
	t.Run("Known language", func(t *testing.T) {
		out := HighlightCode("func main() {}", "go", "gruvbox")
		if out == "" {
			t.Error("Expected highlighted output")
		}
	})

	t.Run("Unknown language falls back", func(t *testing.T) {
		out := HighlightCode("plain text", "not-a-language", "gruvbox")
		if out == "" {
			t.Error("Expected output even for unknown language")
		}
	})
}

func TestGenerateSyntaxCSS(t *testing.T) {
	css1 := GenerateSyntaxCSS("gruvbox")
	if css1 == "" {
		t.Fatal("Expected generated CSS")
	}

	// Second call should serve the cached value.
	css2 := GenerateSyntaxCSS("gruvbox")
	if css1 != css2 {
		t.Error("Expected identical CSS from the cache")
	}
}
