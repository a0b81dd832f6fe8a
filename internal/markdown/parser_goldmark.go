package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser on top of goldmark.
// The engine for the default options is built once; goldmark.Markdown is
// safe for concurrent use, so a single parser serves the whole worker pool.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
	engine   goldmark.Markdown
}

// NewGoldmarkParser builds a parser around the supplied defaults. An empty
// extension list enables the GFM set (tables, strikethrough, linkify,
// task lists).
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaults: defaults,
		engine:   buildEngine(defaults),
	}
}

// Parse renders Markdown into HTML with the parser's default options.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.convert(p.engine, markdown)
}

// ParseWithOptions renders Markdown with per-call overrides. The engine is
// rebuilt for the call, so prefer Parse on hot paths.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	return p.convert(buildEngine(opts), markdown)
}

func (p *GoldmarkParser) convert(engine goldmark.Markdown, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

func buildEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	rendererOpts := []renderer.Option{}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	// Raw HTML passes through only when neither safe mode nor sanitisation
	// is requested; otherwise goldmark drops it.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	engineOpts := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	}
	if exts := resolveExtensions(opts.Extensions); len(exts) > 0 {
		engineOpts = append(engineOpts, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOpts...)
}

// knownExtensions maps configuration names (and common aliases) onto goldmark
// extenders. Unknown names are skipped rather than failing the build.
var knownExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}

	seen := map[string]struct{}{}
	out := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if ext, ok := knownExtensions[key]; ok {
			out = append(out, ext)
		}
	}
	return out
}
