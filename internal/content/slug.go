package content

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

// SlugNormalizer exposes the slug normalizer interface.
type SlugNormalizer = slug.Normalizer

// DefaultSlugNormalizer returns the default slug normalizer.
func DefaultSlugNormalizer() SlugNormalizer {
	return slug.Default()
}

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// SlugFromPath derives a slug from the file stem of a source path, e.g.
// "posts/How Recursing Works.md" becomes "how-recursing-works".
func SlugFromPath(sourcePath string) (string, error) {
	base := path.Base(strings.TrimSpace(sourcePath))
	stem := strings.TrimSuffix(base, path.Ext(base))
	return NormalizeSlug(stem)
}
