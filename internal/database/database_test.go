package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackforge/trackedit/internal/config"
	"github.com/trackforge/trackedit/internal/model"
)

func TestManager_ConnectAndSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.db")
	m := NewManager(config.DatabaseConfig{Type: "sqlite", Path: path}, zerolog.Nop())

	require.NoError(t, m.Connect())
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Setup())

	assert.Equal(t, "sqlite", m.DB.Dialector.Name())
	for _, table := range model.DatabaseModels {
		assert.True(t, m.DB.Migrator().HasTable(table))
	}
}

func TestManager_UnknownType(t *testing.T) {
	m := NewManager(config.DatabaseConfig{Type: "oracle"}, zerolog.Nop())

	err := m.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database type")
}

func TestManager_Backup(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(dir, "tracks.db")}, zerolog.Nop())
	require.NoError(t, m.Connect())
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Setup())
	require.NoError(t, m.DB.Create(&model.Prefab{ID: 1, Name: "GateAir", IsGate: true}).Error)

	backup := filepath.Join(dir, "backup.db")
	require.NoError(t, os.WriteFile(backup, []byte("stale"), 0644))
	require.NoError(t, m.Backup(backup))

	restored, err := OpenSQLite(backup)
	require.NoError(t, err)
	var count int64
	require.NoError(t, restored.Model(&model.Prefab{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestManager_BackupWithoutPath(t *testing.T) {
	m := NewManager(config.DatabaseConfig{}, zerolog.Nop())

	assert.Error(t, m.Backup(""))
}

func TestManager_CloseWithoutConnect(t *testing.T) {
	m := NewManager(config.DatabaseConfig{}, zerolog.Nop())

	assert.NoError(t, m.Close())
}
