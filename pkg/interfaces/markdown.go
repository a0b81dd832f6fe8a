package interfaces

import (
	"time"

	"github.com/google/uuid"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should support reusable parser instances and extension
// toggles so hosts can tailor rendering without rewriting the build pipeline.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Document represents a Markdown source file with parsed metadata and
// content. The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	// ID is a deterministic identifier derived from the source path, stable
	// across builds so manifests and feeds can reference the same page.
	ID          uuid.UUID
	FilePath    string
	FrontMatter FrontMatter
	Body        []byte
	BodyHTML    []byte
	// LastModified carries the source file mtime when the loader can read it.
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so
	// incremental builds can detect changes without re-rendering.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Required fields
// (Layout, Title, Date) are enforced by the content loader; everything else
// stays flexible thanks to the Custom map.
type FrontMatter struct {
	Layout     string         `yaml:"layout" json:"layout"`
	Title      string         `yaml:"title" json:"title"`
	Slug       string         `yaml:"slug" json:"slug"`
	Summary    string         `yaml:"summary" json:"summary"`
	Date       time.Time      `yaml:"date" json:"date"`
	Categories []string       `yaml:"categories" json:"categories"`
	Draft      bool           `yaml:"draft" json:"draft"`
	Custom     map[string]any `yaml:",inline" json:"custom"`
	Raw        map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive     *bool
	Pattern       string
	IncludeDrafts bool
}
