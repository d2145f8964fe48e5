package wire

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/trackforge/trackedit/internal/catalog"
	"github.com/trackforge/trackedit/internal/track"
)

// Compression names accepted by Ext.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// Ext returns the file extension suffix for a compression name.
func Ext(compression string) (string, error) {
	switch compression {
	case CompressionNone, "":
		return "", nil
	case CompressionGzip:
		return ".gz", nil
	case CompressionZstd:
		return ".zst", nil
	default:
		return "", fmt.Errorf("unknown compression: %s", compression)
	}
}

// ReadFile imports a track file. Files ending in .gz or .zst are decompressed.
func ReadFile(path string, res catalog.Resolver, logger *slog.Logger) (*track.Track, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	t, err := Unmarshal(data, res, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadRaw returns the decompressed document bytes of a track file, as
// written by WriteFile.
func ReadRaw(path string) ([]byte, error) {
	return readAll(path)
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}
	return data, nil
}

// WriteFile exports t to path, compressing by extension like ReadFile. The
// encoded document is returned so callers can Verify it.
func WriteFile(path string, t *track.Track) ([]byte, error) {
	data, err := Marshal(t)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return nil, fmt.Errorf("failed to compress track: %w", err)
		}
		if err := gz.Close(); err != nil {
			return nil, fmt.Errorf("failed to compress track: %w", err)
		}
	case ".zst":
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to compress track: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("failed to compress track: %w", err)
		}
	default:
		buf.Write(data)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write track file: %w", err)
	}
	return data, nil
}
