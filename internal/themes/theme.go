package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/identity"
)

// Theme identifies a theme directory on disk. The ID is derived from the
// path so repeated builds agree on manifest registration.
type Theme struct {
	ID      uuid.UUID
	Name    string
	Version string
	Path    string
}

// NewTheme resolves a theme under basePath by name.
func NewTheme(basePath, name string) *Theme {
	name = strings.TrimSpace(name)
	path := filepath.Join(strings.TrimSpace(basePath), name)
	return &Theme{
		ID:   identity.UUID("go-sitegen:theme:" + filepath.ToSlash(path)),
		Name: name,
		Path: path,
	}
}

// ManifestLoader loads a go-theme manifest from a theme directory.
type ManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

// manifestCandidates are the file names go-theme accepts for a theme manifest.
var manifestCandidates = []string{"theme.json", "theme.yaml", "theme.yml"}

func (fsManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}

	for _, name := range manifestCandidates {
		if _, err := os.Stat(filepath.Join(cleaned, name)); err == nil {
			return gotheme.LoadDir(os.DirFS(cleaned), ".")
		}
	}
	return nil, fmt.Errorf("theme manifest in %s: %w", cleaned, fs.ErrNotExist)
}

// SelectorConfig captures theme selection defaults.
type SelectorConfig struct {
	DefaultTheme   string
	DefaultVariant string
}

// Selector registers theme manifests lazily and resolves go-theme selections
// for rendering and asset collection.
type Selector struct {
	registry       *gotheme.MemoryRegistry
	loader         ManifestLoader
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[uuid.UUID]*gotheme.Manifest
}

// NewSelector constructs a Selector. A nil loader falls back to reading
// manifests from the filesystem.
func NewSelector(cfg SelectorConfig, loader ManifestLoader) *Selector {
	if loader == nil {
		loader = fsManifestLoader{}
	}
	return &Selector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		defaultTheme:   strings.TrimSpace(cfg.DefaultTheme),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
		manifests:      map[uuid.UUID]*gotheme.Manifest{},
	}
}

// Selection resolves the go-theme selection for the provided theme record.
// Theme directories without a manifest resolve to a nil selection; rendering
// then proceeds with bare templates and no theme assets.
func (s *Selector) Selection(theme *Theme, variant string) (*gotheme.Selection, error) {
	if theme == nil {
		return nil, nil
	}

	manifest, err := s.ensureManifest(theme)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, nil
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(theme.Name, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", theme.Name, err)
	}
	return selection, nil
}

func (s *Selector) ensureManifest(theme *Theme) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manifest, ok := s.manifests[theme.ID]; ok {
		return manifest, nil
	}

	manifest, err := s.loader.Load(theme.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.manifests[theme.ID] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("load theme manifest from %s: %w", theme.Path, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, theme.Name) {
		normalized.Name = strings.TrimSpace(theme.Name)
	}
	if strings.TrimSpace(normalized.Version) == "" {
		normalized.Version = strings.TrimSpace(theme.Version)
	}
	if normalized.Name == "" {
		return nil, fmt.Errorf("theme name required for manifest registration")
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}
	s.manifests[theme.ID] = &normalized
	return &normalized, nil
}
