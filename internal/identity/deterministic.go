package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageUUID identifies a page by its source path, stable across builds.
func PageUUID(sourcePath string) uuid.UUID {
	return UUID("go-sitegen:page:" + strings.TrimSpace(sourcePath))
}

// BuildUUID identifies a single build run by site and start timestamp.
func BuildUUID(site string, startedAt string) uuid.UUID {
	return UUID("go-sitegen:build:" + strings.TrimSpace(site) + ":" + strings.TrimSpace(startedAt))
}

// AssetUUID identifies a copied asset by its relative path.
func AssetUUID(relPath string) uuid.UUID {
	return UUID("go-sitegen:asset:" + strings.TrimSpace(relPath))
}
