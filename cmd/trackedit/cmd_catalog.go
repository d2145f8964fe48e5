package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/trackforge/trackedit/pkg/core"
)

// catalogEntry is one prefab in a catalog import file.
type catalogEntry struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	IsGate bool   `json:"isGate"`
}

func (c *cli) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the prefab catalog",
	}
	cmd.AddCommand(c.newCatalogImportCmd())
	cmd.AddCommand(c.newCatalogListCmd())
	return cmd
}

func (c *cli) newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Insert or update prefabs from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read catalog: %w", err)
			}
			var entries []catalogEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("failed to parse catalog: %w", err)
			}

			prefabs := make([]core.Prefab, len(entries))
			for i, e := range entries {
				prefabs[i] = core.Prefab{ID: e.ID, Name: e.Name, Type: e.Type, IsGate: e.IsGate}
			}
			n, err := c.app.Prefabs.UpsertPrefabs(cmd.Context(), prefabs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d prefab(s), catalog has %d\n", n, c.app.Prefabs.Catalog().Len())
			return nil
		},
	}
}

func (c *cli) newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog prefabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tGATE")
			for _, p := range c.app.Prefabs.Catalog().List() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", p.ID, p.Name, p.Type, p.IsGate)
			}
			return tw.Flush()
		},
	}
}
