package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/trackforge/trackedit/internal/config"
	"github.com/trackforge/trackedit/internal/store"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/internal/wire"
)

func (c *cli) newExportCmd() *cobra.Command {
	var (
		out         string
		compression string
		revision    string
	)
	cmd := &cobra.Command{
		Use:   "export <track>",
		Short: "Write a track file for the game to load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			cfg := config.GetExportConfig()
			if compression == "" {
				compression = cfg.Compression
			}

			var (
				t   *track.Track
				err error
			)
			if revision != "" {
				t, err = c.loadRevision(cmd, revision)
			} else {
				t, err = a.loadTrack(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			if out == "" {
				ext, err := wire.Ext(compression)
				if err != nil {
					return err
				}
				out = filepath.Join(cfg.OutputDir, args[0]+".json"+ext)
			}

			data, err := wire.WriteFile(out, t)
			if err != nil {
				return err
			}
			if cfg.Verify {
				written, err := wire.ReadRaw(out)
				if err != nil {
					return err
				}
				if err := wire.Verify(t, written, a.Prefabs.Catalog()); err != nil {
					return err
				}
			}

			a.Logger.Info("Track exported", "path", out, "bytes", len(data), "verified", cfg.Verify)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", t.Name, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, compressed when it ends in .gz or .zst")
	cmd.Flags().StringVar(&compression, "compression", "", "none, gzip or zstd when --out is not given")
	cmd.Flags().StringVar(&revision, "revision", "", "export a saved revision instead of the latest state")
	return cmd
}

func (c *cli) loadRevision(cmd *cobra.Command, revision string) (*track.Track, error) {
	id, err := uuid.Parse(revision)
	if err != nil {
		return nil, fmt.Errorf("invalid revision id: %w", err)
	}
	db, ok := c.app.Store.(*store.DB)
	if !ok {
		return nil, fmt.Errorf("revisions are only kept by the database store")
	}
	return db.LoadRevision(cmd.Context(), id)
}
