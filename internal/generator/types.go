package generator

import (
	"time"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
)

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun        bool
	IncludeDrafts bool
	// Workers overrides Config.Workers for this run when positive.
	Workers int
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	GeneratedAt   time.Time
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// TemplateContext captures the data contract passed to layout templates.
type TemplateContext struct {
	Site    SiteMetadata
	Page    PageContext
	Build   BuildMetadata
	Theme   ThemeContext
	Helpers TemplateHelpers
}

// SiteMetadata exposes site-wide information required by templates.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
	Metadata    map[string]any
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageContext carries the resolved data for a single document.
type PageContext struct {
	Title      string
	Summary    string
	Slug       string
	Route      string
	Layout     string
	Source     string
	Date       time.Time
	Categories []string
	Draft      bool
	// Content holds rendered HTML. Templates pass it through safeHTML so
	// markup survives html/template escaping.
	Content string
	// Params exposes front-matter keys outside the reserved set.
	Params map[string]any
}

// ThemeContext surfaces go-theme selection data to templates.
type ThemeContext struct {
	Name      string
	Variant   string
	Tokens    map[string]string
	CSSVars   map[string]string
	Partials  map[string]string
	AssetURL  func(string) string
	Template  func(string, string) string
	Selection *gotheme.Selection
}

// ThemingConfig tunes how theme selections surface in templates.
type ThemingConfig struct {
	CSSVariablePrefix string
	PartialFallbacks  map[string]string
}

func buildThemeContext(selection *gotheme.Selection, cfg ThemingConfig) ThemeContext {
	empty := ThemeContext{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
		AssetURL: func(string) string { return "" },
		Template: func(_ string, fallback string) string { return fallback },
	}
	if selection == nil {
		return empty
	}

	return ThemeContext{
		Name:      selection.Theme,
		Variant:   selection.Variant,
		Tokens:    selection.Tokens(),
		CSSVars:   selection.CSSVariables(cfg.CSSVariablePrefix),
		Partials:  selection.Partials(cfg.PartialFallbacks),
		AssetURL:  func(key string) string { url, _ := selection.Asset(key); return url },
		Template:  selection.Template,
		Selection: selection,
	}
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	baseURL string
}

func newTemplateHelpers(baseURL string) TemplateHelpers {
	return TemplateHelpers{baseURL: trimBaseURL(baseURL)}
}

// BaseURL returns the configured site base URL.
func (h TemplateHelpers) BaseURL() string {
	return h.baseURL
}

// WithBaseURL prefixes the provided path with the configured base URL.
func (h TemplateHelpers) WithBaseURL(path string) string {
	return absoluteURL(h.baseURL, path)
}

// RenderedPage captures the rendered HTML output for a document.
type RenderedPage struct {
	PageID       uuid.UUID
	Source       string
	Slug         string
	Route        string
	Output       string
	Layout       string
	Title        string
	Summary      string
	PublishedAt  time.Time
	LastModified time.Time
	HTML         string
	// SourceHash is the checksum of the Markdown source, used for
	// incremental skip decisions.
	SourceHash string
	// Checksum is the hash of the rendered HTML.
	Checksum string
	Duration time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual documents.
type RenderDiagnostic struct {
	PageID   uuid.UUID
	Source   string
	Route    string
	Layout   string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}
