// Package render provides markdown rendering and syntax highlighting functionality.
package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"

	"github.com/inkfold/inkfold/internal/cache"
	"github.com/inkfold/inkfold/internal/config"
)

// RenderMarkdown converts a markdown body to HTML with the engine selected by
// the content.renderer config value.
func RenderMarkdown(md []byte, highlightStyle string) []byte {
	switch config.AppConfig.Content.Renderer {
	case "mmark":
		return RenderMarkdownMmark(md, highlightStyle)
	default:
		return RenderMarkdownClassic(md, highlightStyle)
	}
}

// Mutex to protect the check-render-set operation in RenderMarkdownCached
var renderCacheMutex sync.Mutex

func RenderMarkdownCached(md []byte, contentHash, highlightStyle string) []byte {
	if contentHash == "" {
		renderLogger.Warn().Msg("Content hash is empty, skipping cache check")
		return RenderMarkdown(md, highlightStyle)
	}

	// First check cache without locking (fast path for cache hits)
	if cached, found := cache.GetRenderedMarkdown(contentHash, highlightStyle); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("highlightStyle", highlightStyle).Msg("Cache hit for rendered markdown")
		return cached
	}

	// Cache miss
	renderLogger.Debug().Str("contentHash", contentHash).Str("highlightStyle", highlightStyle).Msg("Cache miss for rendered markdown")
	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	html := RenderMarkdown(md, highlightStyle)
	cache.SetRenderedMarkdown(contentHash, highlightStyle, html)

	return html
}

func codeBlockHook(highlightStyle string, fallback func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool)) md_html.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		if code, ok := node.(*ast.CodeBlock); ok && entering {
			var lang string
			if info := code.Info; info != nil {
				lang = string(info)
			}
			highlighted := HighlightCode(string(code.Literal), lang, highlightStyle)
			fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", highlighted)
			return ast.GoToNext, true
		}

		if fallback != nil {
			return fallback(w, node, entering)
		}
		return ast.GoToNext, false
	}
}

func RenderMarkdownClassic(md []byte, highlightStyle string) []byte {
	opts := md_html.RendererOptions{
		Flags:    md_html.CommonFlags | md_html.HrefTargetBlank | md_html.FootnoteReturnLinks,
		Comments: [][]byte{[]byte("//"), []byte("#")},
		RenderNodeHook: codeBlockHook(highlightStyle, func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if callout, ok := node.(*ast.Callout); ok && entering {
				fmt.Fprintf(w, "<span class=\"callout\">%s</span>", callout.ID)
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		}),
	}

	doc := parser.NewWithExtensions(
		parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough | parser.SpaceHeadings |
			parser.HeadingIDs | parser.BackslashLineBreak | parser.SuperSubscript | parser.DefinitionLists | parser.MathJax |
			parser.AutoHeadingIDs | parser.Footnotes | parser.OrderedListStart | parser.Attributes,
	).Parse(md)

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

func RenderMarkdownMmark(md []byte, highlightStyle string) []byte {
	md = markdown.NormalizeNewlines(md)

	mparser.Extensions |= parser.NoIntraEmphasis

	p := parser.NewWithExtensions(mparser.Extensions)

	init := mparser.NewInitial("")
	p.Opts = parser.Options{
		ParserHook:    mparser.Hook,
		ReadIncludeFn: init.ReadInclude,
		Flags:         parser.FlagsNone,
	}

	doc := markdown.Parse(md, p)

	mparser.AddIndex(doc)

	mhtmlOpts := mhtml.RendererOptions{
		Language: lang.New("en"),
	}

	opts := md_html.RendererOptions{
		Comments:       [][]byte{[]byte("//"), []byte("#")},
		RenderNodeHook: codeBlockHook(highlightStyle, mhtmlOpts.RenderHook),
		Flags:          md_html.CommonFlags | md_html.FootnoteNoHRTag | md_html.FootnoteReturnLinks,
	}

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// WarmCache pre-renders markdown content asynchronously to warm the cache
func WarmCache(md []byte, contentHash, highlightStyle string) {
	renderLogger.Debug().Str("contentHash", contentHash).Str("highlightStyle", highlightStyle).Msg("Starting cache warming")
	go func() {
		RenderMarkdownCached(md, contentHash, highlightStyle)
		renderLogger.Debug().Str("contentHash", contentHash).Str("highlightStyle", highlightStyle).Msg("Cache warming completed")
	}()
}
