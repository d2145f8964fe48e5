package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/trackforge/trackedit/internal/config"
	"github.com/trackforge/trackedit/internal/database"
	"github.com/trackforge/trackedit/internal/logging"
	"github.com/trackforge/trackedit/internal/store"
	"github.com/trackforge/trackedit/internal/track"
)

type appOptions struct {
	ConfigDir string
	LogLevel  string
	Console   io.Writer
}

// app is everything a command needs: config, loggers, the database holding
// the prefab catalog and the configured track store.
type app struct {
	SessionID    uuid.UUID
	SessionStart time.Time

	Slog    *logging.SlogManager
	Logger  *slog.Logger
	ZLogger zerolog.Logger
	LogPath string

	DB      *database.Manager
	Prefabs *store.DB
	Store   store.Backend

	trackName string
	logFile   *os.File
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{
		SessionID:    uuid.New(),
		SessionStart: time.Now(),
	}

	if err := config.Load(opts.ConfigDir); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if opts.LogLevel != "" {
		viper.Set("logLevel", opts.LogLevel)
	}

	if err := a.setupLogging(opts.Console); err != nil {
		a.Close()
		return nil, err
	}

	a.DB = database.NewManager(config.GetDatabaseConfig(), a.ZLogger)
	if err := a.DB.Connect(); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.DB.Setup(); err != nil {
		a.Close()
		return nil, err
	}

	a.Prefabs = store.NewDB(a.DB.DB, a.Logger)
	if err := a.Prefabs.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}

	storeCfg := config.GetStoreConfig()
	if storeCfg.Type == "db" {
		a.Store = a.Prefabs
	} else {
		backend, err := store.NewBackend(storeCfg, store.Dependencies{
			DB:       a.DB.DB,
			Resolver: a.Prefabs.Catalog(),
			Logger:   a.Logger,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := backend.Init(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.Store = backend
	}

	a.Logger.Debug("Track store ready", "type", storeCfg.Type, "prefabs", a.Prefabs.Catalog().Len())
	return a, nil
}

func (a *app) setupLogging(console io.Writer) error {
	level := config.GetString("logLevel")
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	a.LogPath = logging.LogFilePath(logsDir, AppName, a.SessionStart)
	f, err := os.OpenFile(a.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f

	opts := logging.Options{
		Level:   level,
		Console: console,
		File:    f,
		Context: a.logContext,
	}

	gelfCfg := config.GetGraylogConfig()
	if gelfCfg.Enabled {
		w, err := logging.NewGelfWriter(gelfCfg.Address)
		if err != nil {
			fmt.Fprintf(f, "failed to connect to graylog at %s: %v\n", gelfCfg.Address, err)
		} else {
			opts.Gelf = w
			opts.Host = AppName
		}
	}

	a.Slog = logging.NewSlogManager()
	a.Slog.Setup(opts)
	a.Logger = a.Slog.Logger()

	zlevel, err := zerolog.ParseLevel(level)
	if err != nil || zlevel == zerolog.NoLevel {
		zlevel = zerolog.InfoLevel
	}
	a.ZLogger = zerolog.New(f).Level(zlevel).With().
		Timestamp().
		Str("session", a.SessionID.String()).
		Logger()

	a.Logger.Debug("Logging to file", "path", a.LogPath)
	return nil
}

// logContext is attached to every slog record.
func (a *app) logContext() []slog.Attr {
	attrs := []slog.Attr{slog.String("session", a.SessionID.String())}
	if a.trackName != "" {
		attrs = append(attrs, slog.String("track", a.trackName))
	}
	return attrs
}

// loadTrack reads a saved track and tags later log records with its name.
func (a *app) loadTrack(ctx context.Context, name string) (*track.Track, error) {
	t, err := a.Store.LoadTrack(ctx, name)
	if err != nil {
		return nil, err
	}
	a.trackName = t.Name
	return t, nil
}

func (a *app) Close() error {
	var errs []error
	if a.Store != nil && a.Store != store.Backend(a.Prefabs) {
		errs = append(errs, a.Store.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Slog != nil {
		errs = append(errs, a.Slog.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
