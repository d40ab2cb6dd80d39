package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/search"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

func newTopicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage daily topic windows",
	}
	cmd.AddCommand(
		newTopicAddCmd(a),
		newTopicListCmd(a),
		newTopicDeleteCmd(a),
		newTopicEnableCmd(a, true),
		newTopicEnableCmd(a, false),
	)
	return cmd
}

func newTopicAddCmd(a *app) *cobra.Command {
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add <title> <starts> <ends>",
		Short: "Add a topic",
		Long: `Add a topic that recurs every day between starts and ends.

Times are HH:MM or HH:MM:SS. A window whose start is after its end runs
across midnight.

Example:
  tlog topic add "Deep work" 09:00 12:30
  tlog topic add Reading 22:00 00:30 --disabled`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			starts, err := types.ParseTimeOfDay(args[1])
			if err != nil {
				return fmt.Errorf("starts: %w", err)
			}
			ends, err := types.ParseTimeOfDay(args[2])
			if err != nil {
				return fmt.Errorf("ends: %w", err)
			}

			return a.withStore(func(b *sqlite.Backend) error {
				id, err := b.CreateTopic(args[0], starts, ends, !disabled)
				if err != nil {
					return fmt.Errorf("create topic: %w", err)
				}
				a.logger.Infow("topic created", "id", id, "title", args[0])

				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created topic %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the topic without reminders")
	return cmd
}

func newTopicListCmd(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List topics by start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				topics, err := b.ListTopics()
				if err != nil {
					return fmt.Errorf("list topics: %w", err)
				}
				topics = search.Filter(topics, query)

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, nonNil(topics))
				}
				if len(topics) == 0 {
					fmt.Fprintln(out, "No topics found.")
					return nil
				}
				tbl := newTable("ID", "TITLE", "STARTS", "ENDS", "STATE")
				for _, t := range topics {
					tbl.AddRow(t.ID, t.Title, t.Starts, t.Ends, enabledLabel(t.Enabled))
				}
				fmt.Fprintln(out, tbl)
				fmt.Fprintf(out, "Total: %d topic(s)\n", len(topics))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show topics matching the text")
	return cmd
}

func newTopicDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a topic with its notes and problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return a.withStore(func(b *sqlite.Backend) error {
				notes, problems, err := b.Counts(id)
				if err != nil {
					return err
				}
				if err := b.DeleteTopic(id); err != nil {
					return fmt.Errorf("delete topic %d: %w", id, err)
				}
				a.logger.Infow("topic deleted", "id", id, "notes", notes, "problems", problems)

				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"id": id, "notes": notes, "problems": problems,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %d (%d notes, %d problems)\n", id, notes, problems)
				return nil
			})
		},
	}
}

func newTopicEnableCmd(a *app, enabled bool) *cobra.Command {
	use, verb, short := "enable", "Enabled", "Turn on reminders for topics"
	if !enabled {
		use, verb, short = "disable", "Disabled", "Turn off reminders for topics"
	}

	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			return a.withStore(func(b *sqlite.Backend) error {
				n, err := b.SetEnabled(ids, enabled)
				if err != nil {
					return fmt.Errorf("%s topics: %w", use, err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"changed": n})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d topic(s)\n", verb, n)
				return nil
			})
		},
	}
}
