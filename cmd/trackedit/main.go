package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/trackforge/trackedit/internal/logging"
)

// AppName names the log files and the GELF facility host tag.
const AppName = "trackedit"

// Version is set at build time.
var Version = "0.1.0-dev"

func main() {
	c := &cli{}
	err := c.rootCmd().Execute()
	if cerr := c.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds the flags shared by every command and the app opened for the
// running one.
type cli struct {
	configDir string
	logLevel  string

	app *app
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           AppName,
		Short:         "Edit drone race tracks: search, bulk transform, renumber gates and export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			a, err := openApp(cmd.Context(), appOptions{
				ConfigDir: c.configDir,
				LogLevel:  c.logLevel,
				Console:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			c.app = a
			cmd.SetContext(logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath())))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configDir, "config-dir", ".", "directory holding trackedit.cfg.json")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newVersionCmd())
	root.AddCommand(c.newCatalogCmd())
	root.AddCommand(c.newImportCmd())
	root.AddCommand(c.newListCmd())
	root.AddCommand(c.newStatsCmd())
	root.AddCommand(c.newSearchCmd())
	root.AddCommand(c.newEditCmd())
	root.AddCommand(c.newExportCmd())
	root.AddCommand(c.newDeleteCmd())
	root.AddCommand(c.newRevisionsCmd())
	root.AddCommand(c.newBackupCmd())

	return root
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"standalone": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", AppName, Version)
		},
	}
}
