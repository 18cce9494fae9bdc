// Command newpost scaffolds a markdown post file with YAML front matter in
// the content directory.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/inkfold/inkfold/internal/frontmatter"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(promptStyle.Render(label + ": "))
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func main() {
	contentDir := "posts"
	if len(os.Args) > 1 {
		contentDir = os.Args[1]
	}

	scanner := bufio.NewScanner(os.Stdin)

	title := prompt(scanner, "Title")
	if title == "" {
		fmt.Println(errorStyle.Render("A title is required"))
		os.Exit(1)
	}

	slug := prompt(scanner, "Slug (blank to derive from title)")
	if slug == "" {
		slug = slugify(title)
	} else {
		slug = slugify(slug)
	}

	excerpt := prompt(scanner, "Excerpt")
	if excerpt == "" {
		fmt.Println(errorStyle.Render("An excerpt is required"))
		os.Exit(1)
	}

	imageURL := prompt(scanner, "Image URL (blank for derived cover)")

	meta := frontmatter.Meta{
		Title:    title,
		Date:     time.Now().Format("2006-01-02"),
		Excerpt:  excerpt,
		ImageURL: imageURL,
	}

	fm, err := yaml.Marshal(&meta)
	if err != nil {
		fmt.Println(errorStyle.Render("Error marshalling front matter: " + err.Error()))
		os.Exit(1)
	}

	var doc strings.Builder
	doc.WriteString("---\n")
	doc.Write(fm)
	doc.WriteString("---\n\nWrite your post here.\n")

	path := filepath.Join(contentDir, slug+".md")
	if _, err := os.Stat(path); err == nil {
		fmt.Println(errorStyle.Render("Refusing to overwrite " + path))
		os.Exit(1)
	}

	if err := os.WriteFile(path, []byte(doc.String()), 0644); err != nil {
		fmt.Println(errorStyle.Render("Error writing post: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(outputStyle.Render("Created " + path))
}
