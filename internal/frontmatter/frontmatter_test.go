package frontmatter

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name            string
		markdown        []byte
		expectError     bool
		expectedTitle   string
		expectedDate    string
		expectedExcerpt string
		expectedImage   string
		expectedBody    string
	}{
		{
			name: "Valid YAML front matter",
			markdown: []byte(`---
title: Hello World
date: "2024-01-01"
excerpt: A first post
---
# Content`),
			expectedTitle:   "Hello World",
			expectedDate:    "2024-01-01",
			expectedExcerpt: "A first post",
			expectedBody:    "# Content",
		},
		{
			name: "YAML front matter with image",
			markdown: []byte(`---
title: Covered
date: "2024-02-01"
excerpt: Has a cover
imageUrl: https://example.com/cover.jpg
---
body`),
			expectedTitle:   "Covered",
			expectedDate:    "2024-02-01",
			expectedExcerpt: "Has a cover",
			expectedImage:   "https://example.com/cover.jpg",
			expectedBody:    "body",
		},
		{
			name: "Valid mmark TOML front matter",
			markdown: []byte(`%%%
title = "Hello World"
date = "2024-01-01"
excerpt = "A first post"
%%%
# Content`),
			expectedTitle:   "Hello World",
			expectedDate:    "2024-01-01",
			expectedExcerpt: "A first post",
		},
		{
			name: "Leading whitespace before TOML block",
			markdown: []byte(`


%%%
title = "Hello World"
date = "2024-01-01"
%%%
# Content`),
			expectedTitle: "Hello World",
			expectedDate:  "2024-01-01",
		},
		{
			name: "No front matter",
			markdown: []byte(`# Just Content
No front matter here.`),
			expectedBody: "# Just Content\nNo front matter here.",
		},
		{
			name:     "Empty file",
			markdown: []byte(""),
		},
		{
			name: "Unterminated TOML block",
			markdown: []byte(`%%%
title = "Incomplete
# Content`),
			expectError: true,
		},
		{
			name:        "Only TOML delimiters",
			markdown:    []byte("%%% %%%"),
			expectError: true,
		},
		{
			name: "Malformed YAML block",
			markdown: []byte(`---
title: [unclosed
---
body`),
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta, body, err := Parse(tc.markdown)

			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error, but got none")
				}
				if meta != nil {
					t.Errorf("Expected nil meta when error occurs, but got %+v", meta)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, but got: %v", err)
			}
			if meta == nil {
				t.Fatal("Expected front matter meta, but got nil")
			}

			if meta.Title != tc.expectedTitle {
				t.Errorf("Expected title %q, but got %q", tc.expectedTitle, meta.Title)
			}
			if meta.Date != tc.expectedDate {
				t.Errorf("Expected date %q, but got %q", tc.expectedDate, meta.Date)
			}
			if meta.Excerpt != tc.expectedExcerpt {
				t.Errorf("Expected excerpt %q, but got %q", tc.expectedExcerpt, meta.Excerpt)
			}
			if meta.ImageURL != tc.expectedImage {
				t.Errorf("Expected imageUrl %q, but got %q", tc.expectedImage, meta.ImageURL)
			}
			if tc.expectedBody != "" && strings.TrimSpace(string(body)) != tc.expectedBody {
				t.Errorf("Expected body %q, but got %q", tc.expectedBody, strings.TrimSpace(string(body)))
			}
		})
	}
}

func TestMissingRequired(t *testing.T) {
	testCases := []struct {
		name    string
		meta    Meta
		missing []string
	}{
		{
			name: "All present",
			meta: Meta{Title: "t", Date: "2024-01-01", Excerpt: "e"},
		},
		{
			name:    "All missing",
			meta:    Meta{},
			missing: []string{"title", "date", "excerpt"},
		},
		{
			name:    "Blank values count as missing",
			meta:    Meta{Title: "  ", Date: "2024-01-01", Excerpt: ""},
			missing: []string{"title", "excerpt"},
		},
		{
			name:    "Image is not required",
			meta:    Meta{Title: "t", Date: "d", Excerpt: "e", ImageURL: ""},
			missing: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.meta.MissingRequired()
			if len(got) != len(tc.missing) {
				t.Fatalf("Expected missing %v, got %v", tc.missing, got)
			}
			for i := range got {
				if got[i] != tc.missing[i] {
					t.Errorf("Expected missing %v, got %v", tc.missing, got)
					break
				}
			}
		})
	}
}
