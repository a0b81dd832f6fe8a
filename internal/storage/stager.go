package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const stagePattern = ".sitegen-stage-*"

// Stager is the filesystem backed Store. Writes land in a temporary staging
// directory created next to the destination so Publish can rename across the
// same filesystem.
type Stager struct {
	destDir  string
	stageDir string
	done     bool
}

// NewStager prepares a staging directory for the given destination. The
// destination itself is not touched until Publish.
func NewStager(destDir string) (*Stager, error) {
	dest := filepath.Clean(strings.TrimSpace(destDir))
	if dest == "" || dest == "." {
		return nil, fmt.Errorf("storage: destination directory required")
	}
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("storage: prepare %s: %w", parent, err)
	}
	stage, err := os.MkdirTemp(parent, stagePattern)
	if err != nil {
		return nil, fmt.Errorf("storage: create staging dir: %w", err)
	}
	return &Stager{destDir: dest, stageDir: stage}, nil
}

// StagingDir exposes the staging location, mostly for diagnostics.
func (s *Stager) StagingDir() string {
	return s.stageDir
}

func (s *Stager) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := s.relPath(path)
	if err != nil {
		return err
	}
	if rel == "" {
		return nil
	}
	return os.MkdirAll(filepath.Join(s.stageDir, rel), 0o755)
}

func (s *Stager) WriteFile(ctx context.Context, req WriteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return fmt.Errorf("storage: write requires content reader")
	}
	rel, err := s.relPath(req.Path)
	if err != nil {
		return err
	}
	if rel == "" {
		return fmt.Errorf("storage: write requires path")
	}
	target := filepath.Join(s.stageDir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("storage: ensure dir for %s: %w", rel, err)
	}
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", rel, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		return fmt.Errorf("storage: write %s: %w", rel, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", rel, err)
	}
	return nil
}

func (s *Stager) ReadPublished(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := s.relPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.destDir, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotPublished, rel)
		}
		return nil, fmt.Errorf("storage: read published %s: %w", rel, err)
	}
	return data, nil
}

func (s *Stager) CopyPublished(ctx context.Context, path string) error {
	data, err := s.ReadPublished(ctx, path)
	if err != nil {
		return err
	}
	return s.WriteFile(ctx, WriteRequest{
		Path:    path,
		Content: strings.NewReader(string(data)),
		Size:    int64(len(data)),
	})
}

// Publish swaps the staged tree into place. The previous tree is renamed
// aside first so a failed swap can roll back.
func (s *Stager) Publish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.done {
		return fmt.Errorf("storage: staging area already finalized")
	}

	backup := s.destDir + ".previous"
	if err := os.RemoveAll(backup); err != nil {
		return fmt.Errorf("storage: clear stale backup: %w", err)
	}

	hadPrevious := false
	if _, err := os.Stat(s.destDir); err == nil {
		hadPrevious = true
		if err := os.Rename(s.destDir, backup); err != nil {
			return fmt.Errorf("storage: move previous tree aside: %w", err)
		}
	}

	if err := os.Rename(s.stageDir, s.destDir); err != nil {
		if hadPrevious {
			// Best effort rollback so the old site stays reachable.
			_ = os.Rename(backup, s.destDir)
		}
		return fmt.Errorf("storage: publish staged tree: %w", err)
	}
	s.done = true

	if hadPrevious {
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("storage: remove previous tree: %w", err)
		}
	}
	return nil
}

func (s *Stager) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	return os.RemoveAll(s.stageDir)
}

// Clean removes the published destination tree.
func (s *Stager) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(s.destDir)
}

func (s *Stager) relPath(path string) (string, error) {
	rel := strings.TrimLeft(strings.TrimSpace(path), "/")
	rel = filepath.Clean(filepath.FromSlash(rel))
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: path escapes destination: %s", path)
	}
	return rel, nil
}
