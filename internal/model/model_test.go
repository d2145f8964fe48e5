package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"Prefab", &Prefab{}, "prefabs"},
		{"Track", &Track{}, "tracks"},
		{"TrackRevision", &TrackRevision{}, "track_revisions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels(t *testing.T) {
	assert.Len(t, DatabaseModels, 3)
}

func TestTrackRevision_BeforeCreate(t *testing.T) {
	r := &TrackRevision{}
	require.NoError(t, r.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, r.ID)

	fixed := uuid.New()
	r = &TrackRevision{ID: fixed}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, fixed, r.ID)
}
