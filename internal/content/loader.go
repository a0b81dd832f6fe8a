package content

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// SchemaValidator checks a document's raw front-matter map against a site
// provided schema. Implementations live in internal/validation.
type SchemaValidator interface {
	ValidatePayload(ctx context.Context, payload map[string]any) error
}

// LoaderConfig configures how Markdown files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where Markdown documents live.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// IncludeDrafts keeps documents marked draft in the result set.
	IncludeDrafts bool
	// Schema optionally validates each document's raw front matter.
	Schema SchemaValidator
}

// Loader turns filesystem paths into validated site documents.
type Loader struct {
	fs            fs.FS
	basePath      string
	pattern       string
	recursive     bool
	includeDrafts bool
	schema        SchemaValidator
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	return &Loader{
		fs:            filesystem,
		basePath:      filepath.Clean(cfg.BasePath),
		pattern:       pattern,
		recursive:     cfg.Recursive,
		includeDrafts: cfg.IncludeDrafts,
		schema:        cfg.Schema,
	}
}

// LoadFile reads, parses, and validates a single Markdown document. Draft
// documents are returned as-is; filtering happens in LoadDirectory so single
// file loads stay inspectable.
func (l *Loader) LoadFile(ctx context.Context, path string) (*interfaces.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("content loader read %s: %w", rel, err)
	}

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, &DocumentError{Path: rel, Err: err}
	}

	if fm.Slug == "" {
		derived, err := SlugFromPath(rel)
		if err != nil {
			return nil, &DocumentError{Path: rel, Err: fmt.Errorf("%w: %v", ErrSlugInvalid, err)}
		}
		fm.Slug = derived
	}

	if err := ValidateFrontMatter(fm); err != nil {
		return nil, &DocumentError{Path: rel, Err: err}
	}

	if l.schema != nil {
		if err := l.schema.ValidatePayload(ctx, fm.Raw); err != nil {
			return nil, &DocumentError{Path: rel, Err: fmt.Errorf("%w: %v", ErrSchemaInvalid, err)}
		}
	}

	doc := &interfaces.Document{
		ID:          identity.PageUUID(rel),
		FilePath:    rel,
		FrontMatter: fm,
		Body:        body,
	}

	if info, err := fs.Stat(l.fs, rel); err == nil {
		doc.LastModified = info.ModTime()
	}

	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return doc, nil
}

// LoadDirectory discovers Markdown files under dir and returns parsed,
// validated documents ordered lexicographically by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	var docs []*interfaces.Document

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, path) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if !l.matchesPattern(rel) {
			return nil
		}

		doc, err := l.LoadFile(ctx, rel)
		if err != nil {
			return err
		}
		if doc.FrontMatter.Draft && !l.includeDrafts {
			return nil
		}
		docs = append(docs, doc)
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})

	return docs, nil
}

func (l *Loader) shouldRecurse(root, current string) bool {
	if l.recursive {
		return true
	}
	// If recursion is disabled, only walk the root directory.
	return filepath.Clean(root) == filepath.Clean(current)
}

func (l *Loader) matchesPattern(relPath string) bool {
	// Normalise to slash as fs.WalkDir returns slash-separated paths for DirFS.
	pattern := filepath.ToSlash(l.pattern)
	if strings.Contains(pattern, "**") {
		return matchDoublestar(strings.Split(pattern, "/"), strings.Split(relPath, "/"))
	}
	var target string
	if strings.Contains(pattern, "/") {
		target = relPath
	} else {
		target = path.Base(relPath)
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// matchDoublestar matches pattern segments against path segments, with "**"
// spanning zero or more directories so posts/**/*.md accepts posts/a.md as
// well as posts/2024/04/a.md.
func matchDoublestar(patternSegs, pathSegs []string) bool {
	if len(patternSegs) == 0 {
		return len(pathSegs) == 0
	}
	if patternSegs[0] == "**" {
		for skip := 0; skip <= len(pathSegs); skip++ {
			if matchDoublestar(patternSegs[1:], pathSegs[skip:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegs) == 0 {
		return false
	}
	match, err := path.Match(patternSegs[0], pathSegs[0])
	if err != nil || !match {
		return false
	}
	return matchDoublestar(patternSegs[1:], pathSegs[1:])
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("content loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("content loader: make relative %s: %w", path, err)
	}
	return rel, nil
}
