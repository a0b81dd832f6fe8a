package runtimeconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsMissingDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.SourceDir = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrSourceDirRequired) {
		t.Fatalf("expected ErrSourceDirRequired, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Site.DestinationDir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrDestinationDirRequired) {
		t.Fatalf("expected ErrDestinationDirRequired, got %v", err)
	}
}

func TestValidateRejectsNestedDestination(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.SourceDir = "site/content"
	cfg.Site.DestinationDir = "site/content/public"
	if err := cfg.Validate(); !errors.Is(err, ErrDestinationInsideSource) {
		t.Fatalf("expected ErrDestinationInsideSource, got %v", err)
	}
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.BaseURL = "example.com/no-scheme"
	if err := cfg.Validate(); !errors.Is(err, ErrBaseURLInvalid) {
		t.Fatalf("expected ErrBaseURLInvalid, got %v", err)
	}
}

func TestValidateLoggingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yml")
	raw := []byte(`title: Recursing Notes
base_url: https://example.com
source_dir: content
destination_dir: public
theme:
  name: minimal
generator:
  workers: 4
  feeds: false
logging:
  provider: gologger
  level: debug
  format: console
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if cfg.Site.Title != "Recursing Notes" {
		t.Fatalf("expected title to be set, got %q", cfg.Site.Title)
	}
	if cfg.Site.BaseURL != "https://example.com" {
		t.Fatalf("expected base URL, got %q", cfg.Site.BaseURL)
	}
	if cfg.Theme.Name != "minimal" {
		t.Fatalf("expected theme override, got %q", cfg.Theme.Name)
	}
	if cfg.Theme.BasePath != "themes" {
		t.Fatalf("expected default theme path to survive, got %q", cfg.Theme.BasePath)
	}
	if cfg.Generator.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Generator.Workers)
	}
	if cfg.Generator.GenerateFeeds {
		t.Fatal("expected feeds to be disabled")
	}
	if !cfg.Generator.GenerateSitemap {
		t.Fatal("expected sitemap default to survive")
	}
	if cfg.Logging.Provider != "gologger" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging overrides, got %+v", cfg.Logging)
	}
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	if err := os.WriteFile(path, []byte("title: [unclosed"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadFile(path); !errors.Is(err, ErrConfigFileMalformed) {
		t.Fatalf("expected ErrConfigFileMalformed, got %v", err)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yml")
	if err := os.WriteFile(path, []byte("ttile: typo\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadFile(path); !errors.Is(err, ErrConfigFileMalformed) {
		t.Fatalf("expected unknown keys to be rejected, got %v", err)
	}
}
