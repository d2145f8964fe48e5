package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/trackforge/trackedit/internal/config"
	"github.com/trackforge/trackedit/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a shared in-memory SQLite database.
const MemoryPath = "file::memory:?cache=shared"

// Manager handles database connections and operations.
type Manager struct {
	DB     *gorm.DB
	SqlDB  *sql.DB
	Config config.DatabaseConfig
	Logger zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(cfg config.DatabaseConfig, log zerolog.Logger) *Manager {
	return &Manager{
		Config: cfg,
		Logger: log,
	}
}

// Connect opens the configured database and validates the connection.
func (m *Manager) Connect() error {
	var err error

	switch m.Config.Type {
	case "postgres":
		m.DB, err = OpenPostgres(m.Config)
	case "sqlite", "":
		m.DB, err = OpenSQLite(m.Config.Path)
	default:
		return fmt.Errorf("unknown database type: %s", m.Config.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", m.Config.Type, err)
	}

	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = m.SqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}

	if m.DB.Dialector.Name() == "postgres" {
		m.SqlDB.SetMaxOpenConns(10)
	}

	m.Logger.Info().Str("type", m.DB.Dialector.Name()).Msg("Connected to database")
	return nil
}

// Setup migrates tables.
func (m *Manager) Setup() error {
	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}

// Backup vacuums a SQLite database into a file, replacing any existing one.
func (m *Manager) Backup(path string) error {
	if path == "" {
		return errors.New("backup path not set")
	}
	if name := m.DB.Dialector.Name(); name != "sqlite" {
		return fmt.Errorf("backup is only supported for sqlite, not %s", name)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	began := time.Now()
	if err := m.DB.Exec("VACUUM INTO ?", "file:"+path).Error; err != nil {
		return fmt.Errorf("vacuum into %s: %w", path, err)
	}
	m.Logger.Debug().Dur("duration", time.Since(began)).Str("path", path).Msg("Backed up DB to disk")
	return nil
}

// sqlitePragmas run on every new SQLite connection.
var sqlitePragmas = []string{
	"PRAGMA user_version = 1",
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA cache_size = -32000",
	"PRAGMA temp_store = MEMORY",
}

func gormConfig(prepare bool) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            prepare,
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// OpenPostgres returns a connection to the Postgres database.
func OpenPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), gormConfig(false))
}

// OpenSQLite returns a connection to a SQLite database, in memory when path
// is empty.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		path = MemoryPath
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(true))
	if err != nil {
		return nil, err
	}
	for _, pragma := range sqlitePragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return db, nil
}
