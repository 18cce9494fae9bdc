// Package pagination slices the sorted post collection into fixed-size pages.
package pagination

import (
	"context"

	"github.com/inkfold/inkfold/internal/cache"
	"github.com/inkfold/inkfold/internal/model"
	"github.com/inkfold/inkfold/internal/repository"
)

// PageSize is the fixed number of posts per page.
const PageSize = 10

type Paginator struct {
	repo  repository.PostRepository
	pages *cache.Cache[int, *model.PaginatedPosts]
}

func New(repo repository.PostRepository) *Paginator {
	return &Paginator{
		repo:  repo,
		pages: cache.NewCache[int, *model.PaginatedPosts](),
	}
}

// Page returns the requested page of the post collection, memoized per page
// number for the process lifetime. Out-of-range pages, including page <= 0,
// yield an empty slice and echo the requested page; never an error.
func (p *Paginator) Page(ctx context.Context, page int) *model.PaginatedPosts {
	if cached, ok := p.pages.Get(page); ok {
		return cached
	}

	posts := p.repo.ListAll(ctx)
	total := len(posts)
	totalPages := (total + PageSize - 1) / PageSize

	slice := []model.Post{}
	start := (page - 1) * PageSize
	if start >= 0 && start < total {
		end := start + PageSize
		if end > total {
			end = total
		}
		slice = posts[start:end]
	}

	result := &model.PaginatedPosts{
		Posts:       slice,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	p.pages.Set(page, result)
	return result
}

// Invalidate resets the per-page cache together with the repository's
// memoized listing.
func (p *Paginator) Invalidate() {
	p.pages.Clear()
	p.repo.Invalidate()
}
