package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/trackforge/trackedit/internal/geo"
	"github.com/trackforge/trackedit/internal/store"
	"github.com/trackforge/trackedit/internal/wire"
)

func (c *cli) newImportCmd() *cobra.Command {
	var name, note string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Read a track file (.json, .json.gz or .json.zst) into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			t, err := wire.ReadFile(args[0], a.Prefabs.Catalog(), a.Logger)
			if err != nil {
				return err
			}
			if name != "" {
				t.Name = name
			}
			if t.Name == "" {
				return errors.New("track has no name, pass --name")
			}
			if note == "" {
				note = "import " + args[0]
			}
			if err := a.Store.SaveTrack(cmd.Context(), t, note); err != nil {
				return err
			}
			counts := t.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d node(s), %d gate(s)\n", t.Name, counts.Nodes, counts.Gates)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store the track under this name instead of the one in the file")
	cmd.Flags().StringVar(&note, "note", "", "revision note")
	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := c.app.Store.ListTracks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintln(out, "no tracks")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tNODES\tPREFABS\tGATES\tSPLINES\tUPDATED")
			for _, s := range tracks {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
					s.Name, s.Counts.Nodes, s.Counts.Prefabs, s.Counts.Gates, s.Counts.Splines,
					s.UpdatedAt.Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <track>",
		Short: "Show counts, race order and extent of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.app.loadTrack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			counts := t.Counts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "track:     %s\n", t.Name)
			fmt.Fprintf(out, "nodes:     %d\n", counts.Nodes)
			fmt.Fprintf(out, "prefabs:   %d\n", counts.Prefabs)
			fmt.Fprintf(out, "gates:     %d (next %d)\n", counts.Gates, t.NextGateNo())
			fmt.Fprintf(out, "splines:   %d\n", counts.Splines)
			if id, ok := t.Start(); ok {
				fmt.Fprintf(out, "start:     %d\n", id)
			}
			if id, ok := t.Finish(); ok {
				fmt.Fprintf(out, "finish:    %d\n", id)
			}
			fmt.Fprintf(out, "extent:    %s\n", geo.ExtentWKT(t))
			fmt.Fprintf(out, "race line: %.0f\n", geo.RaceLineLength(t))
			return nil
		},
	}
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <track>",
		Short: "Delete a saved track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Store.DeleteTrack(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) newRevisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revisions <track>",
		Short: "List saved revisions of a track (database store only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, ok := c.app.Store.(*store.DB)
			if !ok {
				return errors.New("revisions are only kept by the database store")
			}
			revs, err := db.Revisions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tNODES\tGATES\tNOTE")
			for _, r := range revs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.CreatedAt.Format(time.DateTime), r.Nodes, r.Gates, r.Note)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Write a copy of the SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DB.Backup(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backed up to %s\n", args[0])
			return nil
		},
	}
}
