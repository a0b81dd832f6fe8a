package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".sitegen-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs. It is keyed for lookups in memory; manifestFile is the
// serialized form.
type buildManifest struct {
	Version     int
	GeneratedAt time.Time
	Pages       map[string]manifestPage
	Assets      map[string]manifestAsset
	Metadata    map[string]json.RawMessage
}

type manifestPage struct {
	PageID       string    `json:"page_id"`
	Source       string    `json:"source"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Layout       string    `json:"layout"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	Title        string    `json:"title,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

type manifestAsset struct {
	Key      string    `json:"key"`
	Scope    string    `json:"scope"`
	Source   string    `json:"source"`
	Output   string    `json:"output"`
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	CopiedAt time.Time `json:"copied_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:  manifestFileVersion,
		Pages:    map[string]manifestPage{},
		Assets:   map[string]manifestAsset{},
		Metadata: map[string]json.RawMessage{},
	}
}

// manifestFile is the on-disk shape: page and asset entries are stored as
// sorted arrays so the serialized form is deterministic. parseManifest and
// marshal must agree on this shape for incremental runs to see the previous
// build.
type manifestFile struct {
	Version     int                        `json:"version"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Pages       []manifestPage             `json:"pages"`
	Assets      []manifestAsset            `json:"assets"`
	Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}

	manifest := newBuildManifest()
	manifest.GeneratedAt = file.GeneratedAt
	if file.Version != 0 {
		manifest.Version = file.Version
	}
	if file.Metadata != nil {
		manifest.Metadata = file.Metadata
	}
	for _, entry := range file.Pages {
		manifest.setPage(entry)
	}
	for _, entry := range file.Assets {
		manifest.setAsset(entry)
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	file := manifestFile{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Metadata:    m.Metadata,
	}
	if file.Version == 0 {
		file.Version = manifestFileVersion
	}
	if len(m.Pages) > 0 {
		file.Pages = make([]manifestPage, 0, len(m.Pages))
		for _, entry := range m.Pages {
			file.Pages = append(file.Pages, entry)
		}
		sort.Slice(file.Pages, func(i, j int) bool {
			if file.Pages[i].PageID == file.Pages[j].PageID {
				return file.Pages[i].Source < file.Pages[j].Source
			}
			return file.Pages[i].PageID < file.Pages[j].PageID
		})
	}
	if len(m.Assets) > 0 {
		file.Assets = make([]manifestAsset, 0, len(m.Assets))
		for _, entry := range m.Assets {
			file.Assets = append(file.Assets, entry)
		}
		sort.Slice(file.Assets, func(i, j int) bool {
			return file.Assets[i].Key < file.Assets[j].Key
		})
	}
	return json.MarshalIndent(file, "", "  ")
}

func (m *buildManifest) pageKey(pageID uuid.UUID) string {
	return strings.ToLower(pageID.String())
}

func (m *buildManifest) assetKey(scope assetSource, source string) string {
	return string(scope) + "::" + strings.TrimSpace(source)
}

func (m *buildManifest) lookupPage(pageID uuid.UUID) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[m.pageKey(pageID)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	m.Pages[strings.ToLower(strings.TrimSpace(entry.PageID))] = entry
}

func (m *buildManifest) shouldSkipPage(pageID uuid.UUID, hash, output string) bool {
	entry, ok := m.lookupPage(pageID)
	if !ok {
		return false
	}
	if entry.Hash != hash {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) lookupAsset(scope assetSource, source string) (manifestAsset, bool) {
	if m == nil || len(m.Assets) == 0 {
		return manifestAsset{}, false
	}
	entry, ok := m.Assets[m.assetKey(scope, source)]
	return entry, ok
}

func (m *buildManifest) setAsset(entry manifestAsset) {
	if m == nil {
		return
	}
	if m.Assets == nil {
		m.Assets = map[string]manifestAsset{}
	}
	key := entry.Key
	if key == "" {
		key = entry.Scope + "::" + strings.TrimSpace(entry.Source)
		entry.Key = key
	}
	m.Assets[key] = entry
}

func (m *buildManifest) shouldSkipAsset(scope assetSource, source, checksum, output string) bool {
	entry, ok := m.lookupAsset(scope, source)
	if !ok {
		return false
	}
	if entry.Checksum != checksum {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) prunePages(keys map[string]struct{}) {
	if m == nil || len(m.Pages) == 0 {
		return
	}
	for key := range m.Pages {
		if _, ok := keys[key]; !ok {
			delete(m.Pages, key)
		}
	}
}

func (m *buildManifest) pruneAssets(keys map[string]struct{}) {
	if m == nil || len(m.Assets) == 0 {
		return
	}
	for key := range m.Assets {
		if _, ok := keys[key]; !ok {
			delete(m.Assets, key)
		}
	}
}
