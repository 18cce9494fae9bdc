// Package images derives fallback cover images for posts that do not declare
// one in their front matter.
package images

import (
	"strings"

	"github.com/inkfold/inkfold/internal/config"
)

type Mode string

const (
	// ModeLocal synthesizes /images/<slug>.jpg.
	ModeLocal Mode = "local"
	// ModePalette picks from a fixed set of stock image URLs.
	ModePalette Mode = "palette"
)

type Resolver struct {
	mode    Mode
	palette []string
}

func NewResolver(mode string, palette []string) *Resolver {
	m := Mode(mode)
	if m != ModePalette {
		m = ModeLocal
	}
	return &Resolver{mode: m, palette: palette}
}

// Resolve maps a slug to a cover image reference. It is a pure function of
// the slug: no I/O, same slug always yields the same string. Whether the
// image actually exists is the asset server's concern, not ours.
//
// Palette mode may map distinct slugs to the same stock image; the local-path
// form is injective across lowercase-normalized slugs.
func (r *Resolver) Resolve(slug string) string {
	if r.mode == ModePalette && len(r.palette) > 0 {
		var sum int
		for _, c := range []byte(slug) {
			sum += int(c)
		}
		return r.palette[sum%len(r.palette)]
	}
	return config.ImagesUrlPath + normalizeSlug(slug) + ".jpg"
}

func normalizeSlug(slug string) string {
	return strings.ReplaceAll(strings.ToLower(slug), " ", "-")
}
