// Package frontmatter splits a markdown document into its metadata block and
// body. YAML blocks between --- delimiters are the primary format; mmark-style
// %%% TOML blocks are accepted as well.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	fm "github.com/adrg/frontmatter"
	"github.com/gomarkdown/markdown"
)

// Meta is the metadata header of a post document. Title, Date and Excerpt are
// required on the listing path; ImageURL is optional and falls back to a
// derived cover.
type Meta struct {
	Title    string `yaml:"title" toml:"title"`
	Date     string `yaml:"date" toml:"date"`
	Excerpt  string `yaml:"excerpt" toml:"excerpt"`
	ImageURL string `yaml:"imageUrl,omitempty" toml:"imageUrl"`
}

// MissingRequired reports which of the required keys are absent or blank.
func (m *Meta) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(m.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(m.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(m.Excerpt) == "" {
		missing = append(missing, "excerpt")
	}
	return missing
}

var tomlDelimiter = []byte("%%%")

// Parse returns the metadata and the markdown body that follows it.
// A document without a front-matter block parses to a zero Meta and the full
// input as body; required-field enforcement is the caller's concern.
func Parse(md []byte) (*Meta, []byte, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	if bytes.HasPrefix(md, tomlDelimiter) {
		return parseMmark(md)
	}

	meta := &Meta{}
	body, err := fm.Parse(bytes.NewReader(md), meta)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}
	return meta, body, nil
}

func parseMmark(md []byte) (*Meta, []byte, error) {
	delimiter := tomlDelimiter

	// Check if md is long enough to contain the delimiter
	if len(md) < 2*len(delimiter) {
		return nil, nil, fmt.Errorf("invalid front matter format")
	}

	first := bytes.Index(md[:len(delimiter)+1], delimiter)
	if first == -1 {
		return nil, nil, fmt.Errorf("invalid front matter format")
	}

	second := bytes.Index(md[first+len(delimiter):], delimiter)
	if second == -1 {
		return nil, nil, fmt.Errorf("invalid front matter format")
	}

	end := second + 2*len(delimiter) + 1
	if end > len(md) {
		return nil, nil, fmt.Errorf("invalid front matter format")
	}

	block := md[len(delimiter) : end-len(delimiter)-1]

	meta := &Meta{}
	if _, err := toml.Decode(string(block), meta); err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	return meta, md[end:], nil
}
