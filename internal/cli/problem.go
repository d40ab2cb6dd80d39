package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/search"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

func newProblemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problem",
		Short: "Track problems met while working on a topic",
	}
	cmd.AddCommand(
		newProblemAddCmd(a),
		newProblemListCmd(a),
		newProblemSolveCmd(a),
		newProblemDeleteCmd(a),
	)
	return cmd
}

func newProblemAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <topic-id> <statement>...",
		Short: "Record an unsolved problem",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := parseID(args[0])
			if err != nil {
				return err
			}
			statement := strings.Join(args[1:], " ")

			return a.withStore(func(b *sqlite.Backend) error {
				id, err := b.CreateProblem(topicID, statement)
				if err != nil {
					return fmt.Errorf("create problem: %w", err)
				}
				a.logger.Infow("problem created", "id", id, "topic", topicID)

				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded problem %d\n", id)
				return nil
			})
		},
	}
}

func newProblemListCmd(a *app) *cobra.Command {
	var (
		all   bool
		query string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unsolved problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				var (
					problems []types.Problem
					err      error
				)
				if all {
					problems, err = b.ListProblems()
				} else {
					problems, err = b.ListUnsolvedProblems()
				}
				if err != nil {
					return fmt.Errorf("list problems: %w", err)
				}
				problems = search.Filter(problems, query)

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, nonNil(problems))
				}
				if len(problems) == 0 {
					fmt.Fprintln(out, "No problems found.")
					return nil
				}

				topics, err := b.ListTopics()
				if err != nil {
					return fmt.Errorf("list topics: %w", err)
				}
				printProblems(out, problems, topicTitles(topics))
				fmt.Fprintf(out, "Total: %d problem(s)\n", len(problems))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include solved problems")
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show problems matching the text")
	return cmd
}

func printProblems(out io.Writer, problems []types.Problem, titles map[int64]string) {
	tbl := newTable("ID", "CREATED", "TOPIC", "PROBLEM", "STATE")
	for _, p := range problems {
		tbl.AddRow(p.ID, p.Created.Format(types.TimestampLayout), titles[p.TopicID], p.Statement, solvedLabel(p.Solved))
	}
	fmt.Fprintln(out, tbl)
}

func newProblemSolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <id>",
		Short: "Mark a problem as solved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(b *sqlite.Backend) error {
				changed, err := b.MarkSolved(id)
				if err != nil {
					return fmt.Errorf("solve problem %d: %w", id, err)
				}

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, map[string]any{"id": id, "changed": changed})
				}
				if changed {
					fmt.Fprintf(out, "Solved problem %d\n", id)
				} else {
					fmt.Fprintf(out, "Problem %d is already solved or does not exist\n", id)
				}
				return nil
			})
		},
	}
}

func newProblemDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(b *sqlite.Backend) error {
				if err := b.DeleteProblem(id); err != nil {
					return fmt.Errorf("delete problem %d: %w", id, err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted problem %d\n", id)
				return nil
			})
		},
	}
}
