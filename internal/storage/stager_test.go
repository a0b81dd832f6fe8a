package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStagerPublishSwapsTree(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "public")

	stager, err := NewStager(dest)
	if err != nil {
		t.Fatalf("NewStager: %v", err)
	}

	ctx := context.Background()
	err = stager.WriteFile(ctx, WriteRequest{
		Path:    "2024/04/08/how-recursing-works/index.html",
		Content: strings.NewReader("<html>one</html>"),
	})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("destination must not exist before Publish")
	}

	if err := stager.Publish(ctx); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "2024", "04", "08", "how-recursing-works", "index.html"))
	if err != nil {
		t.Fatalf("read published file: %v", err)
	}
	if string(data) != "<html>one</html>" {
		t.Fatalf("unexpected published content %q", data)
	}
}

func TestStagerPublishReplacesPreviousTree(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "public")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "stale.html"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	stager, err := NewStager(dest)
	if err != nil {
		t.Fatalf("NewStager: %v", err)
	}
	ctx := context.Background()
	if err := stager.WriteFile(ctx, WriteRequest{Path: "index.html", Content: strings.NewReader("new")}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := stager.Publish(ctx); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "stale.html")); !os.IsNotExist(err) {
		t.Fatal("expected stale artifact to be removed by the swap")
	}
	if _, err := os.Stat(dest + ".previous"); !os.IsNotExist(err) {
		t.Fatal("expected backup tree to be removed")
	}
}

func TestStagerDiscardLeavesDestinationUntouched(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "public")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "index.html"), []byte("live"), 0o644); err != nil {
		t.Fatal(err)
	}

	stager, err := NewStager(dest)
	if err != nil {
		t.Fatalf("NewStager: %v", err)
	}
	ctx := context.Background()
	if err := stager.WriteFile(ctx, WriteRequest{Path: "index.html", Content: strings.NewReader("half-built")}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := stager.Discard(); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "index.html"))
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "live" {
		t.Fatalf("destination mutated by discarded build: %q", data)
	}
	if _, err := os.Stat(stager.StagingDir()); !os.IsNotExist(err) {
		t.Fatal("expected staging dir to be removed")
	}
}

func TestStagerReadPublished(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "public")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "robots.txt"), []byte("User-agent: *\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stager, err := NewStager(dest)
	if err != nil {
		t.Fatalf("NewStager: %v", err)
	}
	t.Cleanup(func() { stager.Discard() })

	ctx := context.Background()
	data, err := stager.ReadPublished(ctx, "robots.txt")
	if err != nil {
		t.Fatalf("ReadPublished: %v", err)
	}
	if !strings.HasPrefix(string(data), "User-agent") {
		t.Fatalf("unexpected content %q", data)
	}

	if _, err := stager.ReadPublished(ctx, "missing.txt"); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
}

func TestStagerRejectsEscapingPaths(t *testing.T) {
	stager, err := NewStager(filepath.Join(t.TempDir(), "public"))
	if err != nil {
		t.Fatalf("NewStager: %v", err)
	}
	t.Cleanup(func() { stager.Discard() })

	err = stager.WriteFile(context.Background(), WriteRequest{
		Path:    "../outside.html",
		Content: strings.NewReader("nope"),
	})
	if err == nil {
		t.Fatal("expected path traversal to be rejected")
	}
}
