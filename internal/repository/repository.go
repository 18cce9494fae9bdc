// Package repository loads posts from a content source, validates them and
// memoizes the sorted collection for the process lifetime.
package repository

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkfold/inkfold/internal/config"
	"github.com/inkfold/inkfold/internal/frontmatter"
	"github.com/inkfold/inkfold/internal/images"
	"github.com/inkfold/inkfold/internal/model"
	"github.com/inkfold/inkfold/internal/render"
	"github.com/inkfold/inkfold/internal/util"
)

// PostRepository is the read-only query surface over a content source.
type PostRepository interface {
	// ListAll returns every valid post, sorted by date descending, with
	// Content holding the unrendered markdown body. The result is memoized;
	// content changed on disk is not reflected until Invalidate.
	ListAll(ctx context.Context) []model.Post

	// GetBySlug reads and fully renders exactly one post, independently of
	// the listing path. Any failure surfaces as an error the caller treats
	// as "absent".
	GetBySlug(ctx context.Context, slug model.Slug) (*model.Post, error)

	// Invalidate drops the memoized listing so the next ListAll re-reads the
	// content source.
	Invalidate()
}

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l.With().Str("component", "repository").Logger()
}

// buildListPost assembles a listing-path post: content stays raw markdown and
// the required front-matter keys are enforced.
func buildListPost(slug model.Slug, data []byte, resolver *images.Resolver) (*model.Post, error) {
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return nil, err
	}
	if missing := meta.MissingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required front matter keys: %s", strings.Join(missing, ", "))
	}

	return &model.Post{
		Slug:          slug,
		Title:         meta.Title,
		Date:          meta.Date,
		Excerpt:       meta.Excerpt,
		Content:       string(body),
		ImageURL:      coverImage(meta, slug, resolver),
		MDContentHash: util.ContentHash(data),
	}, nil
}

// buildRenderedPost assembles a single-post-path post: the body is rendered
// to HTML. Required fields are not enforced here; a post reachable by direct
// slug lookup is shown even when partially filled. Known asymmetry with the
// listing path, pinned by a characterization test.
func buildRenderedPost(slug model.Slug, data []byte, resolver *images.Resolver) (*model.Post, error) {
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return nil, err
	}

	hash := util.ContentHash(data)
	html := render.RenderMarkdownCached(body, hash, config.AppConfig.Content.SyntaxStyle)

	return &model.Post{
		Slug:          slug,
		Title:         meta.Title,
		Date:          meta.Date,
		Excerpt:       meta.Excerpt,
		Content:       string(html),
		ImageURL:      coverImage(meta, slug, resolver),
		MDContentHash: hash,
	}, nil
}

func coverImage(meta *frontmatter.Meta, slug model.Slug, resolver *images.Resolver) string {
	if meta.ImageURL != "" {
		return meta.ImageURL
	}
	return resolver.Resolve(string(slug))
}

// sortPosts orders by date descending under lexical comparison. The sort is
// stable: posts with equal date strings keep their enumeration order, which
// is itself platform-dependent.
func sortPosts(posts []model.Post) {
	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return strings.Compare(b.Date, a.Date)
	})
}

// readFileCtx runs the read in its own goroutine so a caller-supplied
// deadline can abandon a hung filesystem read.
func readFileCtx(ctx context.Context, path string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.data, res.err
	}
}
