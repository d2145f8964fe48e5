package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/trackforge/trackedit/internal/catalog"
	"github.com/trackforge/trackedit/internal/geo"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/internal/wire"
)

// fileExts are the suffixes a saved track may carry, in lookup order.
var fileExts = []string{".json", ".json.gz", ".json.zst"}

// Dir stores each track as a wire file in a directory. It keeps no
// revisions: saving overwrites.
type Dir struct {
	path     string
	ext      string
	resolver catalog.Resolver
	logger   *slog.Logger
}

// Compile-time interface check
var _ Backend = (*Dir)(nil)

// NewDir creates a directory store writing files with the given compression.
func NewDir(path, compression string, res catalog.Resolver, logger *slog.Logger) (*Dir, error) {
	ext, err := wire.Ext(compression)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dir{
		path:     path,
		ext:      ".json" + ext,
		resolver: res,
		logger:   logger,
	}, nil
}

// Init creates the directory.
func (s *Dir) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.path, 0755); err != nil {
		return fmt.Errorf("failed to create track directory: %w", err)
	}
	return nil
}

func (s *Dir) Close() error {
	return nil
}

// SaveTrack writes the track, verifies the written document and removes any
// copy saved with a different compression.
func (s *Dir) SaveTrack(ctx context.Context, t *track.Track, note string) error {
	if err := checkName(t.Name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.path, t.Name+s.ext)
	data, err := wire.WriteFile(path, t)
	if err != nil {
		return err
	}
	if err := wire.Verify(t, data, s.resolver); err != nil {
		return err
	}

	for _, ext := range fileExts {
		if ext == s.ext {
			continue
		}
		if err := os.Remove(filepath.Join(s.path, t.Name+ext)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale track file: %w", err)
		}
	}

	s.logger.Info("Track saved", "track", t.Name, "path", path, "note", note)
	return nil
}

// LoadTrack reads the named track.
func (s *Dir) LoadTrack(ctx context.Context, name string) (*track.Track, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	return wire.ReadFile(path, s.resolver, s.logger)
}

// ListTracks decodes every track file to summarise it.
func (s *Dir) ListTracks(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track directory: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := trackName(e.Name())
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		t, err := wire.ReadFile(filepath.Join(s.path, e.Name()), s.resolver, s.logger)
		if err != nil {
			s.logger.Warn("skipping unreadable track file", "file", e.Name(), "error", err)
			continue
		}
		out = append(out, Summary{
			Name:      name,
			Counts:    t.Counts(),
			Extent:    geo.ExtentWKT(t),
			UpdatedAt: info.ModTime(),
		})
	}

	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// DeleteTrack removes the named track file.
func (s *Dir) DeleteTrack(ctx context.Context, name string) error {
	path, err := s.find(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete track %q: %w", name, err)
	}
	return nil
}

func (s *Dir) find(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	for _, ext := range fileExts {
		path := filepath.Join(s.path, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", notFound(name)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid track name: %q", name)
	}
	return nil
}

// trackName strips the longest known suffix from a file name.
func trackName(file string) (string, bool) {
	for i := len(fileExts) - 1; i >= 0; i-- {
		if name, ok := strings.CutSuffix(file, fileExts[i]); ok && name != "" {
			return name, true
		}
	}
	return "", false
}
