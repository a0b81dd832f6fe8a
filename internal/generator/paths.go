package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// buildOutputPath maps a document to its permalink-shaped output file. Dated
// documents land under category/year/month/day/slug/index.html with the
// category segment omitted when the document has none.
func buildOutputPath(doc *interfaces.Document) string {
	fm := doc.FrontMatter
	segments := make([]string, 0, 5)
	if category := primaryCategory(fm.Categories); category != "" {
		segments = append(segments, category)
	}
	if !fm.Date.IsZero() {
		date := fm.Date.UTC()
		segments = append(segments,
			fmt.Sprintf("%04d", date.Year()),
			fmt.Sprintf("%02d", int(date.Month())),
			fmt.Sprintf("%02d", date.Day()),
		)
	}
	segments = append(segments, fm.Slug)
	return path.Join(path.Join(segments...), "index.html")
}

// routeForOutput turns an output file path into the site-relative URL.
func routeForOutput(output string) string {
	route := strings.TrimSuffix(strings.TrimSpace(output), "index.html")
	route = "/" + strings.Trim(route, "/")
	if route != "/" {
		route += "/"
	}
	return route
}

// primaryCategory returns the first category that survives slug
// normalization so the URL segment is filesystem and link safe. Categories
// that cannot be normalized are skipped rather than failing the build.
func primaryCategory(categories []string) string {
	for _, category := range categories {
		trimmed := strings.TrimSpace(category)
		if trimmed == "" {
			continue
		}
		normalized, err := content.NormalizeSlug(trimmed)
		if err != nil || normalized == "" {
			continue
		}
		return normalized
	}
	return ""
}

// detectCollisions rejects document sets where two sources resolve to the
// same output file. The check runs before rendering so a failing build never
// touches storage.
func detectCollisions(docs []*interfaces.Document) error {
	claimed := map[string][]string{}
	for _, doc := range docs {
		output := buildOutputPath(doc)
		claimed[output] = append(claimed[output], doc.FilePath)
	}
	for output, sources := range claimed {
		if len(sources) > 1 {
			return &PathCollisionError{Output: output, Sources: sources}
		}
	}
	return nil
}

func ensureDir(ctx context.Context, store storage.Store, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return store.EnsureDir(ctx, dir)
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func trimBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

func baseURLWithFallback(base string) string {
	trimmed := trimBaseURL(base)
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if strings.HasPrefix(normalized, "http://") || strings.HasPrefix(normalized, "https://") {
		return normalized
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}
