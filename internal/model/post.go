// Package model defines core data structures and types for the blog application.
package model

import "html/template"

type Slug string

type Post struct {
	Slug Slug `json:"slug"`

	Title   string `json:"title"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`

	// Content holds the raw markdown body on the listing path and the
	// rendered HTML on the single-post path.
	Content string `json:"content"`

	ImageURL string `json:"imageUrl"`

	// Used for cache busting and as the render cache key.
	MDContentHash string `json:"-"`
}

// HTML exposes Content to templates without escaping. Only meaningful on
// posts produced by the single-post path.
func (p *Post) HTML() template.HTML {
	return template.HTML(p.Content)
}
