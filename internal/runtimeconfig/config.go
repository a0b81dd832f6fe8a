package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrSourceDirRequired indicates the content source directory is missing.
var ErrSourceDirRequired = errors.New("sitegen config: source directory is required")

// ErrDestinationDirRequired indicates the publish destination is missing.
var ErrDestinationDirRequired = errors.New("sitegen config: destination directory is required")

// ErrDestinationInsideSource rejects destinations nested under the source tree.
var ErrDestinationInsideSource = errors.New("sitegen config: destination directory cannot live inside the source directory")

var ErrBaseURLInvalid = errors.New("sitegen config: base URL is invalid")
var ErrThemePathRequired = errors.New("sitegen config: theme path is required")
var ErrWorkersInvalid = errors.New("sitegen config: worker count must be zero or positive")
var ErrAssetRetriesInvalid = errors.New("sitegen config: asset retry count must be zero or positive")
var ErrLoggingProviderRequired = errors.New("sitegen config: logging provider is required when logging is enabled")
var ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitegen config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitegen config: logging format is invalid")
var ErrBuildLogPathRequired = errors.New("sitegen config: build log path is required when build log is enabled")

// Config aggregates the runtime settings for a site build. Fields
// intentionally use simple types so host applications can extend them later.
type Config struct {
	Site      SiteConfig
	Content   ContentConfig
	Markdown  MarkdownParserConfig
	Theme     ThemeConfig
	Generator GeneratorConfig
	Routes    *urlkit.Config
	BuildLog  BuildLogConfig
	Logging   LoggingConfig
}

// SiteConfig captures site-wide metadata and the source/destination layout.
type SiteConfig struct {
	Title          string
	Description    string
	BaseURL        string
	SourceDir      string
	DestinationDir string
	StaticDir      string
}

// ContentConfig captures discovery behaviour for the content loader.
type ContentConfig struct {
	Pattern       string
	Recursive     bool
	IncludeDrafts bool
	// SchemaPath optionally names a JSON schema applied to every document's
	// front matter before rendering.
	SchemaPath string
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// ThemeConfig locates the theme holding layout templates and assets.
type ThemeConfig struct {
	BasePath string
	Name     string
	Variant  string
}

// GeneratorConfig captures behaviour for the site assembler.
type GeneratorConfig struct {
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int
	AssetRetries    int
	RenderTimeout   time.Duration
}

// BuildLogConfig enables the optional SQLite-backed build history.
type BuildLogConfig struct {
	Enabled bool
	Path    string
	Cache   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a conventional site layout.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			SourceDir:      "content",
			DestinationDir: "public",
			StaticDir:      "static",
		},
		Content: ContentConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Markdown: MarkdownParserConfig{
			Extensions: []string{"gfm"},
		},
		Theme: ThemeConfig{
			BasePath: "themes",
			Name:     "default",
		},
		Generator: GeneratorConfig{
			CleanBuild:      true,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			Workers:         0,
			AssetRetries:    2,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	source := strings.TrimSpace(cfg.Site.SourceDir)
	if source == "" {
		return ErrSourceDirRequired
	}
	destination := strings.TrimSpace(cfg.Site.DestinationDir)
	if destination == "" {
		return ErrDestinationDirRequired
	}
	if isNested(destination, source) {
		return ErrDestinationInsideSource
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrBaseURLInvalid, base)
		}
	}
	if strings.TrimSpace(cfg.Theme.BasePath) == "" {
		return ErrThemePathRequired
	}
	if cfg.Generator.Workers < 0 {
		return ErrWorkersInvalid
	}
	if cfg.Generator.AssetRetries < 0 {
		return ErrAssetRetriesInvalid
	}
	if cfg.BuildLog.Enabled && strings.TrimSpace(cfg.BuildLog.Path) == "" {
		return ErrBuildLogPathRequired
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func isNested(child, parent string) bool {
	child = strings.TrimSuffix(child, "/")
	parent = strings.TrimSuffix(parent, "/")
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+"/")
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
