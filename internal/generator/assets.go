package generator

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// assetSource names where an asset came from so manifest keys stay distinct
// between theme files and static overrides.
type assetSource string

const (
	assetSourceTheme  assetSource = "theme"
	assetSourceStatic assetSource = "static"
)

type assetSpec struct {
	Scope assetSource
	// Source is the path relative to the asset root it was discovered in.
	Source string
	// Output is the destination path relative to the publish root.
	Output string
}

// collectThemeAssets lists asset files declared by the selected manifest,
// merging variant overrides on top of the base set.
func collectThemeAssets(selection *gotheme.Selection) []string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}

	assets := selection.Manifest.Assets.Files
	if variant := strings.TrimSpace(selection.Variant); variant != "" {
		if v, ok := selection.Manifest.Variants[variant]; ok && len(v.Assets.Files) > 0 {
			merged := make(map[string]string, len(selection.Manifest.Assets.Files)+len(v.Assets.Files))
			for key, file := range selection.Manifest.Assets.Files {
				merged[key] = file
			}
			for key, file := range v.Assets.Files {
				merged[key] = file
			}
			assets = merged
		}
	}

	seen := map[string]struct{}{}
	var out []string
	for _, asset := range assets {
		asset = strings.TrimPrefix(strings.TrimSpace(asset), "/")
		if asset == "" {
			continue
		}
		if _, ok := seen[asset]; ok {
			continue
		}
		seen[asset] = struct{}{}
		out = append(out, filepath.ToSlash(asset))
	}
	sort.Strings(out)
	return out
}

// collectStaticAssets walks the static overlay directory. Every regular file
// is copied verbatim, preserving its relative path at the publish root.
func collectStaticAssets(staticFS fs.FS) ([]string, error) {
	if staticFS == nil {
		return nil, nil
	}
	var out []string
	err := fs.WalkDir(staticFS, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		out = append(out, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	switch ext {
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "woff":
		return "font/woff"
	case "woff2":
		return "font/woff2"
	case "txt":
		return "text/plain; charset=utf-8"
	case "xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
