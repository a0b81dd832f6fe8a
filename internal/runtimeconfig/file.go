package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigFileMalformed indicates the site config file is not valid YAML.
var ErrConfigFileMalformed = errors.New("sitegen config: config file is not valid YAML")

// fileConfig mirrors the YAML shape of a site config file. Booleans use
// pointers so an absent key falls back to the default instead of false.
type fileConfig struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	BaseURL        string   `yaml:"base_url"`
	SourceDir      string   `yaml:"source_dir"`
	DestinationDir string   `yaml:"destination_dir"`
	StaticDir      string   `yaml:"static_dir"`
	Content        *struct {
		Pattern       string `yaml:"pattern"`
		Recursive     *bool  `yaml:"recursive"`
		IncludeDrafts *bool  `yaml:"include_drafts"`
		Schema        string `yaml:"schema"`
	} `yaml:"content"`
	Markdown *struct {
		Extensions []string `yaml:"extensions"`
		Sanitize   *bool    `yaml:"sanitize"`
		HardWraps  *bool    `yaml:"hard_wraps"`
		SafeMode   *bool    `yaml:"safe_mode"`
	} `yaml:"markdown"`
	Theme *struct {
		Path    string `yaml:"path"`
		Name    string `yaml:"name"`
		Variant string `yaml:"variant"`
	} `yaml:"theme"`
	Generator *struct {
		Clean        *bool `yaml:"clean"`
		Incremental  *bool `yaml:"incremental"`
		CopyAssets   *bool `yaml:"copy_assets"`
		Sitemap      *bool `yaml:"sitemap"`
		Robots       *bool `yaml:"robots"`
		Feeds        *bool `yaml:"feeds"`
		Workers      *int  `yaml:"workers"`
		AssetRetries *int  `yaml:"asset_retries"`
	} `yaml:"generator"`
	BuildLog *struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
		Cache   *bool  `yaml:"cache"`
	} `yaml:"build_log"`
	Logging *struct {
		Provider  string   `yaml:"provider"`
		Level     string   `yaml:"level"`
		Format    string   `yaml:"format"`
		AddSource *bool    `yaml:"add_source"`
		Focus     []string `yaml:"focus"`
	} `yaml:"logging"`
}

// LoadFile reads a YAML site config and merges it over DefaultConfig. Keys
// absent from the file keep their default values; the result is validated
// before being returned.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sitegen config: read %s: %w", path, err)
	}
	return parse(raw, path)
}

func parse(raw []byte, path string) (Config, error) {
	var file fileConfig
	decoder := yaml.NewDecoder(strings.NewReader(string(raw)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrConfigFileMalformed, path, err)
	}

	cfg := DefaultConfig()
	applyFile(&cfg, file)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, file fileConfig) {
	setString(&cfg.Site.Title, file.Title)
	setString(&cfg.Site.Description, file.Description)
	setString(&cfg.Site.BaseURL, file.BaseURL)
	setString(&cfg.Site.SourceDir, file.SourceDir)
	setString(&cfg.Site.DestinationDir, file.DestinationDir)
	setString(&cfg.Site.StaticDir, file.StaticDir)

	if file.Content != nil {
		setString(&cfg.Content.Pattern, file.Content.Pattern)
		setBool(&cfg.Content.Recursive, file.Content.Recursive)
		setBool(&cfg.Content.IncludeDrafts, file.Content.IncludeDrafts)
		setString(&cfg.Content.SchemaPath, file.Content.Schema)
	}

	if file.Markdown != nil {
		if len(file.Markdown.Extensions) > 0 {
			cfg.Markdown.Extensions = file.Markdown.Extensions
		}
		setBool(&cfg.Markdown.Sanitize, file.Markdown.Sanitize)
		setBool(&cfg.Markdown.HardWraps, file.Markdown.HardWraps)
		setBool(&cfg.Markdown.SafeMode, file.Markdown.SafeMode)
	}

	if file.Theme != nil {
		setString(&cfg.Theme.BasePath, file.Theme.Path)
		setString(&cfg.Theme.Name, file.Theme.Name)
		setString(&cfg.Theme.Variant, file.Theme.Variant)
	}

	if file.Generator != nil {
		setBool(&cfg.Generator.CleanBuild, file.Generator.Clean)
		setBool(&cfg.Generator.Incremental, file.Generator.Incremental)
		setBool(&cfg.Generator.CopyAssets, file.Generator.CopyAssets)
		setBool(&cfg.Generator.GenerateSitemap, file.Generator.Sitemap)
		setBool(&cfg.Generator.GenerateRobots, file.Generator.Robots)
		setBool(&cfg.Generator.GenerateFeeds, file.Generator.Feeds)
		if file.Generator.Workers != nil {
			cfg.Generator.Workers = *file.Generator.Workers
		}
		if file.Generator.AssetRetries != nil {
			cfg.Generator.AssetRetries = *file.Generator.AssetRetries
		}
	}

	if file.BuildLog != nil {
		setBool(&cfg.BuildLog.Enabled, file.BuildLog.Enabled)
		setString(&cfg.BuildLog.Path, file.BuildLog.Path)
		setBool(&cfg.BuildLog.Cache, file.BuildLog.Cache)
	}

	if file.Logging != nil {
		setString(&cfg.Logging.Provider, file.Logging.Provider)
		setString(&cfg.Logging.Level, file.Logging.Level)
		setString(&cfg.Logging.Format, file.Logging.Format)
		setBool(&cfg.Logging.AddSource, file.Logging.AddSource)
		if len(file.Logging.Focus) > 0 {
			cfg.Logging.Focus = file.Logging.Focus
		}
	}
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
