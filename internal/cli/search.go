package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/search"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

type searchView struct {
	Topics   []types.Topic   `json:"topics"`
	Notes    []types.Note    `json:"notes"`
	Problems []types.Problem `json:"problems"`
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>...",
		Short: "Search topics, notes and problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return a.withStore(func(b *sqlite.Backend) error {
				topics, err := b.ListTopics()
				if err != nil {
					return fmt.Errorf("list topics: %w", err)
				}
				notes, err := b.ListNotes(0)
				if err != nil {
					return fmt.Errorf("list notes: %w", err)
				}
				problems, err := b.ListProblems()
				if err != nil {
					return fmt.Errorf("list problems: %w", err)
				}

				view := searchView{
					Topics:   nonNil(search.Filter(topics, query)),
					Notes:    nonNil(search.Filter(notes, query)),
					Problems: nonNil(search.Filter(problems, query)),
				}

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, view)
				}

				titles := topicTitles(topics)

				printTitle(out, "Topics", len(view.Topics))
				if len(view.Topics) > 0 {
					tbl := newTable("ID", "TITLE", "STARTS", "ENDS", "STATE")
					for _, t := range view.Topics {
						tbl.AddRow(t.ID, t.Title, t.Starts, t.Ends, enabledLabel(t.Enabled))
					}
					fmt.Fprintln(out, tbl)
				}
				fmt.Fprintln(out)

				printTitle(out, "Notes", len(view.Notes))
				if len(view.Notes) > 0 {
					printNotes(out, view.Notes, titles)
				}
				fmt.Fprintln(out)

				printTitle(out, "Problems", len(view.Problems))
				if len(view.Problems) > 0 {
					printProblems(out, view.Problems, titles)
				}
				return nil
			})
		},
	}
}
