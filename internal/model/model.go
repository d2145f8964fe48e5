package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Prefab{},
	&Track{},
	&TrackRevision{},
}

////////////////////////
// CATALOG MODELS
////////////////////////

// Prefab is one catalog entry. The ID is assigned by the game, not the database.
type Prefab struct {
	ID        uint32    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name" gorm:"size:127;index:idx_prefab_name"`
	Type      string    `json:"type" gorm:"size:64"`
	IsGate    bool      `json:"isGate"`
}

func (*Prefab) TableName() string {
	return "prefabs"
}

////////////////////////
// TRACK MODELS
////////////////////////

// Track is the latest saved state of a named track
type Track struct {
	gorm.Model
	Name      string          `json:"name" gorm:"size:127;uniqueIndex:idx_track_name"`
	Nodes     int             `json:"nodes"`
	Prefabs   int             `json:"prefabs"`
	Gates     int             `json:"gates"`
	Splines   int             `json:"splines"`
	Extent    string          `json:"extent" gorm:"size:255"` // WKT polygon on the R/B plane
	Blob      datatypes.JSON  `json:"blob"`
	Revisions []TrackRevision `json:"revisions,omitempty" gorm:"foreignKey:TrackID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Track) TableName() string {
	return "tracks"
}

// TrackRevision is an immutable snapshot written on every save
type TrackRevision struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TrackID   uint           `json:"trackId" gorm:"index:idx_revision_track_id"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index:idx_revision_created_at"`
	Note      string         `json:"note" gorm:"size:255"`
	Nodes     int            `json:"nodes"`
	Gates     int            `json:"gates"`
	Blob      datatypes.JSON `json:"blob"`
}

func (*TrackRevision) TableName() string {
	return "track_revisions"
}

// BeforeCreate assigns a random ID when none is set
func (r *TrackRevision) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
