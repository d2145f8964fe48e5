package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "trackedit.cfg.json"

// DatabaseConfig holds track database connection settings
type DatabaseConfig struct {
	Type     string `json:"type" mapstructure:"type"` // "sqlite" or "postgres"
	Path     string `json:"path" mapstructure:"path"` // sqlite file, empty for in-memory
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StoreConfig selects where tracks are saved
type StoreConfig struct {
	Type        string `json:"type" mapstructure:"type"` // "db" or "dir"
	Dir         string `json:"dir" mapstructure:"dir"`
	Compression string `json:"compression" mapstructure:"compression"`
}

// ExportConfig holds track file export settings
type ExportConfig struct {
	OutputDir   string `json:"outputDir" mapstructure:"outputDir"`
	Compression string `json:"compression" mapstructure:"compression"` // "none", "gzip" or "zstd"
	Verify      bool   `json:"verify" mapstructure:"verify"`
}

// EditorConfig holds editing limits
type EditorConfig struct {
	MaxDuplicates int `json:"maxDuplicates" mapstructure:"maxDuplicates"`
}

// GraylogConfig holds the GELF log sink settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./trackeditlogs")

	viper.SetDefault("db.type", "sqlite")
	viper.SetDefault("db.path", "./tracks.db")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "trackedit")

	viper.SetDefault("store.type", "db")
	viper.SetDefault("store.dir", "./tracks")
	viper.SetDefault("store.compression", "zstd")

	viper.SetDefault("export.outputDir", "./export")
	viper.SetDefault("export.compression", "none")
	viper.SetDefault("export.verify", true)

	viper.SetDefault("editor.maxDuplicates", 500)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetDatabaseConfig returns the db.* settings.
func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Type:     viper.GetString("db.type"),
		Path:     viper.GetString("db.path"),
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetStoreConfig returns the store.* settings.
func GetStoreConfig() StoreConfig {
	return StoreConfig{
		Type:        viper.GetString("store.type"),
		Dir:         viper.GetString("store.dir"),
		Compression: viper.GetString("store.compression"),
	}
}

// GetExportConfig returns the export.* settings.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		OutputDir:   viper.GetString("export.outputDir"),
		Compression: viper.GetString("export.compression"),
		Verify:      viper.GetBool("export.verify"),
	}
}

// GetEditorConfig returns the editor.* settings.
func GetEditorConfig() EditorConfig {
	return EditorConfig{
		MaxDuplicates: viper.GetInt("editor.maxDuplicates"),
	}
}

// GetGraylogConfig returns the graylog.* settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
