package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/trackforge/trackedit/internal/catalog"
	"github.com/trackforge/trackedit/internal/geo"
	"github.com/trackforge/trackedit/internal/model"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/internal/wire"
	"github.com/trackforge/trackedit/pkg/core"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB stores tracks, their revisions and the prefab catalog in a database.
// Tracks are resolved against the catalog held in the same database.
type DB struct {
	db      *gorm.DB
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// Compile-time interface check
var _ Backend = (*DB)(nil)

// NewDB wraps an open connection. Call Init before use.
func NewDB(db *gorm.DB, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DB{
		db:      db,
		catalog: catalog.New(),
		logger:  logger,
	}
}

// Init migrates the schema and loads the prefab catalog.
func (s *DB) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	_, err := s.LoadCatalog(ctx)
	return err
}

// Close is a no-op: the connection belongs to the caller.
func (s *DB) Close() error {
	return nil
}

// Catalog returns the catalog loaded by Init and kept current by UpsertPrefabs.
func (s *DB) Catalog() *catalog.Catalog {
	return s.catalog
}

// UpsertPrefabs inserts or updates catalog entries by id and returns the
// number of rows written.
func (s *DB) UpsertPrefabs(ctx context.Context, prefabs []core.Prefab) (int64, error) {
	rows := make([]model.Prefab, 0, len(prefabs))
	for _, p := range prefabs {
		if !p.Valid() {
			s.logger.Warn("skipping prefab without id", "name", p.Name)
			continue
		}
		rows = append(rows, model.Prefab{ID: p.ID, Name: p.Name, Type: p.Type, IsGate: p.IsGate})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "type", "is_gate", "updated_at"}),
	}).CreateInBatches(&rows, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to upsert prefabs: %w", res.Error)
	}

	for _, r := range rows {
		s.catalog.Set(core.Prefab{ID: r.ID, Name: r.Name, Type: r.Type, IsGate: r.IsGate})
	}
	s.logger.Info("Prefabs upserted", "count", len(rows))
	return res.RowsAffected, nil
}

// LoadCatalog reads every prefab into the store's catalog and returns it.
func (s *DB) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var rows []model.Prefab
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load prefabs: %w", err)
	}
	s.catalog.Reset()
	for _, r := range rows {
		s.catalog.Set(core.Prefab{ID: r.ID, Name: r.Name, Type: r.Type, IsGate: r.IsGate})
	}
	s.logger.Debug("Catalog loaded", "prefabs", len(rows))
	return s.catalog, nil
}

// SaveTrack writes the track and appends a revision in one transaction.
func (s *DB) SaveTrack(ctx context.Context, t *track.Track, note string) error {
	blob, err := wire.Marshal(t)
	if err != nil {
		return err
	}
	counts := t.Counts()
	extent := geo.ExtentWKT(t)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Track
		err := tx.Where("name = ?", t.Name).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = model.Track{Name: t.Name}
		case err != nil:
			return err
		}

		row.Nodes = counts.Nodes
		row.Prefabs = counts.Prefabs
		row.Gates = counts.Gates
		row.Splines = counts.Splines
		row.Extent = extent
		row.Blob = datatypes.JSON(blob)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		return tx.Create(&model.TrackRevision{
			TrackID: row.ID,
			Note:    note,
			Nodes:   counts.Nodes,
			Gates:   counts.Gates,
			Blob:    datatypes.JSON(blob),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save track %q: %w", t.Name, err)
	}

	s.logger.Info("Track saved", "track", t.Name, "nodes", counts.Nodes, "gates", counts.Gates)
	return nil
}

// LoadTrack decodes the latest saved state of a track.
func (s *DB) LoadTrack(ctx context.Context, name string) (*track.Track, error) {
	row, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	return wire.Unmarshal(row.Blob, s.catalog, s.logger)
}

// ListTracks summarises every saved track by name.
func (s *DB) ListTracks(ctx context.Context) ([]Summary, error) {
	var rows []model.Track
	err := s.db.WithContext(ctx).
		Select("name", "nodes", "prefabs", "gates", "splines", "extent", "updated_at").
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}

	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, Summary{
			Name:      r.Name,
			Counts:    track.Counts{Nodes: r.Nodes, Prefabs: r.Prefabs, Gates: r.Gates, Splines: r.Splines},
			Extent:    r.Extent,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// DeleteTrack removes a track and all its revisions.
func (s *DB) DeleteTrack(ctx context.Context, name string) error {
	row, err := s.find(ctx, name)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", row.ID).Delete(&model.TrackRevision{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Track{}, row.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete track %q: %w", name, err)
	}
	return nil
}

// Revisions lists the saved revisions of a track, newest first. Blobs are
// not loaded.
func (s *DB) Revisions(ctx context.Context, name string) ([]model.TrackRevision, error) {
	row, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	var revs []model.TrackRevision
	err = s.db.WithContext(ctx).
		Omit("blob").
		Where("track_id = ?", row.ID).
		Order("created_at desc").
		Find(&revs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revs, nil
}

// LoadRevision decodes one saved revision.
func (s *DB) LoadRevision(ctx context.Context, id uuid.UUID) (*track.Track, error) {
	var rev model.TrackRevision
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("revision " + id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load revision: %w", err)
	}
	return wire.Unmarshal(rev.Blob, s.catalog, s.logger)
}

func (s *DB) find(ctx context.Context, name string) (*model.Track, error) {
	var row model.Track
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find track %q: %w", name, err)
	}
	return &row, nil
}
