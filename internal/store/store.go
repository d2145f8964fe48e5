// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trackforge/trackedit/internal/catalog"
	"github.com/trackforge/trackedit/internal/config"
	"github.com/trackforge/trackedit/internal/track"
	"gorm.io/gorm"
)

// ErrTrackNotFound is returned when no track is saved under a name.
var ErrTrackNotFound = errors.New("track not found")

// Backend is the interface all track stores must satisfy
type Backend interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Track management
	SaveTrack(ctx context.Context, t *track.Track, note string) error
	LoadTrack(ctx context.Context, name string) (*track.Track, error)
	ListTracks(ctx context.Context) ([]Summary, error)
	DeleteTrack(ctx context.Context, name string) error
}

// Summary describes a saved track without loading it.
type Summary struct {
	Name      string       `json:"name"`
	Counts    track.Counts `json:"counts"`
	Extent    string       `json:"extent,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Dependencies holds what a backend may need.
type Dependencies struct {
	DB       *gorm.DB
	Resolver catalog.Resolver
	Logger   *slog.Logger
}

// NewBackend creates a track store based on configuration
func NewBackend(cfg config.StoreConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "db":
		if deps.DB == nil {
			return nil, fmt.Errorf("db store requires a database connection")
		}
		return NewDB(deps.DB, deps.Logger), nil
	case "dir":
		if deps.Resolver == nil {
			return nil, fmt.Errorf("dir store requires a prefab resolver")
		}
		return NewDir(cfg.Dir, cfg.Compression, deps.Resolver, deps.Logger)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrTrackNotFound, name)
}
