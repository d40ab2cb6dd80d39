package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/sqlite"
)

func newSeedCmd(a *app) *cobra.Command {
	opts := sqlite.DefaultSeedOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake topics, notes and problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				stats, err := b.Seed(opts)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				a.logger.Infow("seeded", "topics", stats.Topics, "notes", stats.Notes, "problems", stats.Problems)

				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), stats)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d topics, %d notes, %d problems\n",
					stats.Topics, stats.Notes, stats.Problems)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&opts.Topics, "topics", opts.Topics, "number of topics")
	cmd.Flags().IntVar(&opts.MaxNotes, "max-notes", opts.MaxNotes, "maximum notes per topic")
	cmd.Flags().IntVar(&opts.MaxProblems, "max-problems", opts.MaxProblems, "maximum problems per topic")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
