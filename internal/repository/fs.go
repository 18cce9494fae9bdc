package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/inkfold/inkfold/internal/config"
	"github.com/inkfold/inkfold/internal/images"
	"github.com/inkfold/inkfold/internal/model"
)

type FSPostRepository struct { // implements PostRepository
	contentDir string
	resolver   *images.Resolver

	mu     sync.Mutex
	loaded bool
	posts  []model.Post
}

func NewFSPostRepository(contentDir string, resolver *images.Resolver) *FSPostRepository {
	return &FSPostRepository{
		contentDir: contentDir,
		resolver:   resolver,
	}
}

func (r *FSPostRepository) ListAll(ctx context.Context) []model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.posts
	}

	r.posts = r.loadAll(ctx)
	r.loaded = true
	return r.posts
}

func (r *FSPostRepository) loadAll(ctx context.Context) []model.Post {
	entries, err := os.ReadDir(r.contentDir)
	if err != nil {
		repoLogger.Error().Err(err).Str("path", r.contentDir).Msg("Error reading content directory")
		return []model.Post{}
	}

	// The files are independent and read-only, so the reads are issued
	// concurrently; completion order is irrelevant because the explicit sort
	// below imposes the final order.
	results := make([]*model.Post, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), config.MarkdownExt) {
			continue
		}

		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			path := filepath.Join(r.contentDir, name)
			data, err := readFileCtx(ctx, path)
			if err != nil {
				repoLogger.Error().Err(err).Str("path", path).Msg("Error reading post file")
				return
			}

			slug := model.Slug(strings.TrimSuffix(name, config.MarkdownExt))
			post, err := buildListPost(slug, data, r.resolver)
			if err != nil {
				repoLogger.Warn().Err(err).Str("path", path).Msg("Skipping post")
				return
			}
			results[i] = post
		}(i, entry.Name())
	}
	wg.Wait()

	posts := make([]model.Post, 0, len(results))
	for _, post := range results {
		if post != nil {
			posts = append(posts, *post)
		}
	}
	sortPosts(posts)
	return posts
}

func (r *FSPostRepository) GetBySlug(ctx context.Context, slug model.Slug) (*model.Post, error) {
	if strings.ContainsAny(string(slug), `/\`) {
		repoLogger.Warn().Str("slug", string(slug)).Msg("Rejecting slug with path separators")
		return nil, fmt.Errorf("read post %s: %w", slug, os.ErrNotExist)
	}

	path := filepath.Join(r.contentDir, string(slug)+config.MarkdownExt)
	data, err := readFileCtx(ctx, path)
	if err != nil {
		repoLogger.Warn().Err(err).Str("slug", string(slug)).Msg("Post not found")
		return nil, fmt.Errorf("read post %s: %w", slug, err)
	}

	post, err := buildRenderedPost(slug, data, r.resolver)
	if err != nil {
		repoLogger.Warn().Err(err).Str("slug", string(slug)).Msg("Error rendering post")
		return nil, fmt.Errorf("render post %s: %w", slug, err)
	}
	return post, nil
}

func (r *FSPostRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.posts = nil
	repoLogger.Info().Str("path", r.contentDir).Msg("Post listing cache invalidated")
}
