package images

import (
	"strings"
	"testing"
)

func TestResolveLocalMode(t *testing.T) {
	r := NewResolver("local", nil)

	t.Run("Synthesizes local path", func(t *testing.T) {
		got := r.Resolve("my-first-post")
		want := "/images/my-first-post.jpg"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("Lowercases and hyphenates", func(t *testing.T) {
		got := r.Resolve("My First Post")
		want := "/images/my-first-post.jpg"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		if r.Resolve("stable") != r.Resolve("stable") {
			t.Error("Expected identical results for the same slug")
		}
	})

	t.Run("Injective across normalized slugs", func(t *testing.T) {
		slugs := []string{"alpha", "beta", "gamma", "delta-one", "delta-two"}
		seen := make(map[string]string)
		for _, slug := range slugs {
			img := r.Resolve(slug)
			if prev, ok := seen[img]; ok {
				t.Errorf("Slugs %q and %q collided on %q", prev, slug, img)
			}
			seen[img] = slug
		}
	})
}

func TestResolvePaletteMode(t *testing.T) {
	palette := []string{
		"/images/stock-01.jpg",
		"/images/stock-02.jpg",
		"/images/stock-03.jpg",
	}
	r := NewResolver("palette", palette)

	t.Run("Deterministic", func(t *testing.T) {
		if r.Resolve("some-post") != r.Resolve("some-post") {
			t.Error("Expected identical results for the same slug")
		}
	})

	t.Run("Always picks from the palette", func(t *testing.T) {
		for _, slug := range []string{"a", "bb", "ccc", "a-much-longer-slug", ""} {
			img := r.Resolve(slug)
			found := false
			for _, p := range palette {
				if img == p {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Resolve(%q) = %q, not in palette", slug, img)
			}
		}
	})

	t.Run("Checksum selects the index", func(t *testing.T) {
		// "b" is byte 98; 98 % 3 == 2.
		if got := r.Resolve("b"); got != palette[2] {
			t.Errorf("Expected %q, got %q", palette[2], got)
		}
	})
}

func TestResolveFallsBackToLocalMode(t *testing.T) {
	t.Run("Unknown mode", func(t *testing.T) {
		r := NewResolver("bogus", nil)
		if got := r.Resolve("post"); !strings.HasPrefix(got, "/images/") {
			t.Errorf("Expected local path, got %q", got)
		}
	})

	t.Run("Palette mode with empty palette", func(t *testing.T) {
		r := NewResolver("palette", nil)
		if got := r.Resolve("post"); got != "/images/post.jpg" {
			t.Errorf("Expected local fallback, got %q", got)
		}
	})
}
