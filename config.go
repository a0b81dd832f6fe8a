package sitegen

import (
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

// Config aggregates the runtime settings for a site build.
type Config = runtimeconfig.Config

// SiteConfig captures site-wide metadata and the source/destination layout.
type SiteConfig = runtimeconfig.SiteConfig

// ContentConfig captures discovery behaviour for the content loader.
type ContentConfig = runtimeconfig.ContentConfig

// MarkdownParserConfig configures the Markdown renderer.
type MarkdownParserConfig = runtimeconfig.MarkdownParserConfig

// ThemeConfig locates the theme holding layout templates and assets.
type ThemeConfig = runtimeconfig.ThemeConfig

// GeneratorConfig captures behaviour for the site assembler.
type GeneratorConfig = runtimeconfig.GeneratorConfig

// BuildLogConfig enables the optional SQLite-backed build history.
type BuildLogConfig = runtimeconfig.BuildLogConfig

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig = runtimeconfig.LoggingConfig

// Configuration errors surfaced by Validate and LoadConfigFile.
var (
	ErrSourceDirRequired       = runtimeconfig.ErrSourceDirRequired
	ErrDestinationDirRequired  = runtimeconfig.ErrDestinationDirRequired
	ErrDestinationInsideSource = runtimeconfig.ErrDestinationInsideSource
	ErrBaseURLInvalid          = runtimeconfig.ErrBaseURLInvalid
	ErrThemePathRequired       = runtimeconfig.ErrThemePathRequired
	ErrWorkersInvalid          = runtimeconfig.ErrWorkersInvalid
	ErrAssetRetriesInvalid     = runtimeconfig.ErrAssetRetriesInvalid
	ErrConfigFileMalformed     = runtimeconfig.ErrConfigFileMalformed
	ErrBuildLogPathRequired    = runtimeconfig.ErrBuildLogPathRequired
)

// DefaultConfig returns opinionated defaults for a conventional site layout.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfigFile reads a YAML site config and merges it over DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
