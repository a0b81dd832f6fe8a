package themes

import (
	"fmt"
	"io/fs"
	"testing"

	gotheme "github.com/goliatone/go-theme"
)

type stubManifestLoader struct {
	loads    int
	manifest *gotheme.Manifest
	err      error
}

func (s *stubManifestLoader) Load(string) (*gotheme.Manifest, error) {
	s.loads++
	return s.manifest, s.err
}

func TestSelectorLoadsManifestOnce(t *testing.T) {
	loader := &stubManifestLoader{manifest: &gotheme.Manifest{Name: "minimal", Version: "1.0.0"}}
	selector := NewSelector(SelectorConfig{DefaultTheme: "minimal"}, loader)
	theme := NewTheme("testdata", "minimal")

	first, err := selector.Selection(theme, "")
	if err != nil {
		t.Fatalf("Selection: %v", err)
	}
	if first == nil || first.Theme != "minimal" {
		t.Fatalf("unexpected selection %+v", first)
	}

	if _, err := selector.Selection(theme, ""); err != nil {
		t.Fatalf("Selection second call: %v", err)
	}
	if loader.loads != 1 {
		t.Fatalf("expected manifest loaded once, got %d", loader.loads)
	}
}

func TestSelectorNilTheme(t *testing.T) {
	selector := NewSelector(SelectorConfig{}, &stubManifestLoader{})
	selection, err := selector.Selection(nil, "")
	if err != nil || selection != nil {
		t.Fatalf("expected nil selection without error, got %v %v", selection, err)
	}
}

func TestSelectorMissingManifestFallsBack(t *testing.T) {
	loader := &stubManifestLoader{err: fmt.Errorf("open theme.json: %w", fs.ErrNotExist)}
	selector := NewSelector(SelectorConfig{DefaultTheme: "minimal"}, loader)
	theme := NewTheme("testdata", "minimal")

	selection, err := selector.Selection(theme, "")
	if err != nil {
		t.Fatalf("Selection: %v", err)
	}
	if selection != nil {
		t.Fatalf("expected nil selection for missing manifest, got %+v", selection)
	}

	if _, err := selector.Selection(theme, ""); err != nil {
		t.Fatalf("Selection second call: %v", err)
	}
	if loader.loads != 1 {
		t.Fatalf("expected single load attempt, got %d", loader.loads)
	}
}

func TestNewThemeDerivesStableID(t *testing.T) {
	a := NewTheme("themes", "minimal")
	b := NewTheme("themes", "minimal")
	if a.ID != b.ID {
		t.Fatal("expected stable theme ID for identical paths")
	}
	c := NewTheme("themes", "other")
	if a.ID == c.ID {
		t.Fatal("expected distinct theme IDs for distinct names")
	}
}
