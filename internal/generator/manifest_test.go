package generator

import (
	"bytes"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/identity"
)

func TestManifestRoundTripIsStable(t *testing.T) {
	manifest := newBuildManifest()
	manifest.GeneratedAt = time.Date(2024, 4, 8, 12, 0, 0, 0, time.UTC)
	manifest.setPage(manifestPage{
		PageID: identity.PageUUID("posts/b.md").String(),
		Source: "posts/b.md",
		Output: "2024/04/08/b/index.html",
		Hash:   "bb",
	})
	manifest.setPage(manifestPage{
		PageID: identity.PageUUID("posts/a.md").String(),
		Source: "posts/a.md",
		Output: "2024/04/08/a/index.html",
		Hash:   "aa",
	})

	first, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected deterministic manifest serialization")
	}

	parsed, err := parseManifest(first)
	if err != nil {
		t.Fatalf("parseManifest: %v", err)
	}
	if len(parsed.Pages) != 2 {
		t.Fatalf("expected 2 pages after round trip, got %d", len(parsed.Pages))
	}
	if !parsed.shouldSkipPage(identity.PageUUID("posts/a.md"), "aa", "2024/04/08/a/index.html") {
		t.Fatal("expected parsed manifest to skip the unchanged page")
	}
	if parsed.shouldSkipPage(identity.PageUUID("posts/a.md"), "changed", "2024/04/08/a/index.html") {
		t.Fatal("changed hash must rebuild after round trip")
	}
}

func TestManifestRoundTripPreservesAssets(t *testing.T) {
	manifest := newBuildManifest()
	manifest.GeneratedAt = time.Date(2024, 4, 8, 12, 0, 0, 0, time.UTC)
	manifest.setAsset(manifestAsset{
		Scope:    string(assetSourceStatic),
		Source:   "css/site.css",
		Output:   "css/site.css",
		Checksum: "cc",
		Size:     24,
	})

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parseManifest: %v", err)
	}
	if !parsed.shouldSkipAsset(assetSourceStatic, "css/site.css", "cc", "css/site.css") {
		t.Fatal("expected parsed manifest to skip the unchanged asset")
	}
	if parsed.shouldSkipAsset(assetSourceStatic, "css/site.css", "dd", "css/site.css") {
		t.Fatal("changed checksum must re-copy after round trip")
	}
}

func TestManifestShouldSkipPage(t *testing.T) {
	pageID := identity.PageUUID("posts/a.md")
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{
		PageID: pageID.String(),
		Hash:   "aa",
		Output: "2024/04/08/a/index.html",
	})

	if !manifest.shouldSkipPage(pageID, "aa", "2024/04/08/a/index.html") {
		t.Fatal("expected unchanged page to skip")
	}
	if manifest.shouldSkipPage(pageID, "bb", "2024/04/08/a/index.html") {
		t.Fatal("changed hash must rebuild")
	}
	if manifest.shouldSkipPage(pageID, "aa", "elsewhere/index.html") {
		t.Fatal("moved output must rebuild")
	}
	if manifest.shouldSkipPage(identity.PageUUID("posts/unknown.md"), "aa", "x") {
		t.Fatal("unknown page must rebuild")
	}
}

func TestParseManifestEmptyAndInvalid(t *testing.T) {
	manifest, err := parseManifest(nil)
	if err != nil || manifest == nil || manifest.Version != manifestFileVersion {
		t.Fatalf("expected fresh manifest, got %+v err %v", manifest, err)
	}
	if _, err := parseManifest([]byte("{not json")); err == nil {
		t.Fatal("expected parse error for malformed manifest")
	}
}
