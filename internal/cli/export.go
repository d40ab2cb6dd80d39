package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write topics, notes and problems as JSONL files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				stats, err := b.Export(args[0])
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), stats)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d topics, %d notes, %d problems to %s\n",
					stats.Topics, stats.Notes, stats.Problems, args[0])
				return nil
			})
		},
	}
}
