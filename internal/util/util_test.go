package util

import "testing"

func TestContentHash(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		if ContentHash([]byte("abc")) != ContentHash([]byte("abc")) {
			t.Error("Expected identical hashes for identical content")
		}
	})

	t.Run("Distinct content distinct hash", func(t *testing.T) {
		if ContentHash([]byte("abc")) == ContentHash([]byte("abd")) {
			t.Error("Expected different hashes for different content")
		}
	})

	t.Run("Known vector", func(t *testing.T) {
		// sha256 of the empty string
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := ContentHash(nil); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("String wrapper matches byte form", func(t *testing.T) {
		if ContentHashString("hello") != ContentHash([]byte("hello")) {
			t.Error("Expected string and byte forms to agree")
		}
	})
}
