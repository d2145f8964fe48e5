package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/trackforge/trackedit/internal/config"
	"github.com/trackforge/trackedit/internal/editor"
	"github.com/trackforge/trackedit/internal/logging"
	"github.com/trackforge/trackedit/internal/track"
)

func (c *cli) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <track> <filter>...",
		Short: "Print the objects matching a filter list",
		Long: `Filters are written as "<kind> <method> <value>", for example
"object is 12 positionG biggerThan 500". isOnSpline and isDuplicate take no
method or value, customIndex takes a comma separated list of object ids.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := editor.ParseFilters(args[1:])
			if err != nil {
				return err
			}
			t, err := c.app.loadTrack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s := editor.NewSession(t, c.app.Logger)
			ids := s.Search(filters)
			s.View(func(t *track.Track) {
				err = printObjects(cmd.OutOrStdout(), t, ids)
			})
			return err
		},
	}
}

func (c *cli) newEditCmd() *cobra.Command {
	var (
		exec   []string
		note   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "edit <track> [script|-]",
		Short: "Run editor commands against a track and save the result",
		Long: `Commands are read one per line from a script file, from stdin ("-") or
from repeated --exec flags. Available commands:

  select <id>...                       select objects by id
  select-all                           select every object
  search <filter>...                   select the objects matching filters
  transform <op> <r|g|b|all> <abs|pct> [value]
  duplicate <count>                    copy the selection, copies become selected
  delete                               delete the selection
  gate <id> <number> [norenumber]      number a gate
  start <id> <on|off>                  set or clear the start flag
  finish <id> <on|off>                 set or clear the finish flag
  counts                               print node, prefab, gate and spline counts`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			events, err := readEvents(cmd.InOrStdin(), args[1:], exec)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return errors.New("no commands given")
			}

			t, err := a.loadTrack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			session := editor.NewSession(t, a.Logger,
				editor.MaxDuplicates(config.GetEditorConfig().MaxDuplicates))

			d, err := editor.New(logging.NewDispatcherLogger(a.ZLogger))
			if err != nil {
				return err
			}
			editor.RegisterCommands(d, session)

			results, err := d.Run(cmd.Context(), events)
			out := cmd.OutOrStdout()
			mutated := 0
			for i, r := range results {
				res, ok := r.(editor.Result)
				if !ok {
					continue
				}
				mutated += res.Mutated
				if events[i].Command == editor.CmdCounts {
					fmt.Fprintf(out, "nodes %d, prefabs %d, gates %d, splines %d\n",
						res.Counts.Nodes, res.Counts.Prefabs, res.Counts.Gates, res.Counts.Splines)
				}
			}
			a.Logger.LogAttrs(cmd.Context(), slog.LevelInfo, "Edit finished",
				append(session.LogAttrs(), slog.Int("commands", len(results)), slog.Int("mutated", mutated))...)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "ran %d command(s), %d object change(s)\n", len(results), mutated)
			if !session.Dirty() {
				fmt.Fprintln(out, "no changes")
				return nil
			}
			if dryRun {
				fmt.Fprintln(out, "dry run, not saved")
				return nil
			}
			if note == "" {
				note = fmt.Sprintf("edit (%d commands)", len(events))
			}
			if err := a.Store.SaveTrack(cmd.Context(), t, note); err != nil {
				return err
			}
			session.MarkClean()
			fmt.Fprintf(out, "saved %s\n", t.Name)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&exec, "exec", "e", nil, "editor command to run, may be repeated")
	cmd.Flags().StringVar(&note, "note", "", "revision note")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the commands without saving")
	return cmd
}

// readEvents collects commands from a script argument and --exec flags, in
// that order.
func readEvents(stdin io.Reader, scriptArgs []string, exec []string) ([]editor.Event, error) {
	var events []editor.Event
	if len(scriptArgs) == 1 {
		var r io.Reader = stdin
		if scriptArgs[0] != "-" {
			f, err := os.Open(scriptArgs[0])
			if err != nil {
				return nil, fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()
			r = f
		}
		script, err := editor.ParseScript(r)
		if err != nil {
			return nil, err
		}
		events = append(events, script...)
	}
	if len(exec) > 0 {
		inline, err := editor.ParseScript(strings.NewReader(strings.Join(exec, "\n")))
		if err != nil {
			return nil, err
		}
		events = append(events, inline...)
	}
	return events, nil
}

func printObjects(w io.Writer, t *track.Track, ids []track.ID) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPREFAB\tPOSITION\tGATE")
	for _, id := range ids {
		o := t.Object(id)
		if o == nil {
			continue
		}
		gate := "-"
		if o.IsGate() {
			gate = fmt.Sprint(o.GateNo())
		}
		fmt.Fprintf(tw, "%d\t%s\t%d,%d,%d\t%s\n", id, o.Prefab.Name, o.Position.X, o.Position.Y, o.Position.Z, gate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d match(es)\n", len(ids))
	return err
}
