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

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Log and review notes",
	}
	cmd.AddCommand(newNoteAddCmd(a), newNoteListCmd(a), newNoteDeleteCmd(a))
	return cmd
}

func newNoteAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <topic-id> <text>...",
		Short: "Log a note against a topic",
		Long: `Log a note against a topic. The remaining arguments are joined with
spaces to form the note.

Example:
  tlog note add 3 finished the parser rewrite`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := parseID(args[0])
			if err != nil {
				return err
			}
			body := strings.Join(args[1:], " ")

			return a.withStore(func(b *sqlite.Backend) error {
				id, err := b.CreateNote(topicID, body)
				if err != nil {
					return fmt.Errorf("create note: %w", err)
				}
				a.logger.Infow("note created", "id", id, "topic", topicID)

				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged note %d\n", id)
				return nil
			})
		},
	}
}

func newNoteListCmd(a *app) *cobra.Command {
	var (
		topicID int64
		query   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				notes, err := b.ListNotes(topicID)
				if err != nil {
					return fmt.Errorf("list notes: %w", err)
				}
				notes = search.Filter(notes, query)

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, nonNil(notes))
				}
				if len(notes) == 0 {
					fmt.Fprintln(out, "No notes found.")
					return nil
				}

				topics, err := b.ListTopics()
				if err != nil {
					return fmt.Errorf("list topics: %w", err)
				}
				printNotes(out, notes, topicTitles(topics))
				fmt.Fprintf(out, "Total: %d note(s)\n", len(notes))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&topicID, "topic", 0, "only notes of this topic ID")
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show notes matching the text")
	return cmd
}

func printNotes(out io.Writer, notes []types.Note, titles map[int64]string) {
	tbl := newTable("ID", "CREATED", "TOPIC", "NOTE")
	for _, n := range notes {
		tbl.AddRow(n.ID, n.Created.Format(types.TimestampLayout), titles[n.TopicID], n.Body)
	}
	fmt.Fprintln(out, tbl)
}

func newNoteDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(b *sqlite.Backend) error {
				if err := b.DeleteNote(id); err != nil {
					return fmt.Errorf("delete note %d: %w", id, err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
				return nil
			})
		},
	}
}
