package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/schedule"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

const noSlot = "No topic set for this hour"

// slotLine describes the span covered by the active topics, for example
// "Mon, 09:00 - Mon, 17:00 (ends about 3 hours from now)".
func slotLine(active []types.Topic, now time.Time) string {
	startAt, endAt, ok := schedule.Span(active, now)
	if !ok {
		return noSlot
	}
	return fmt.Sprintf("%s - %s (ends about %s)",
		startAt.Format("Mon, 15:04"), endAt.Format("Mon, 15:04"),
		humanize.RelTime(endAt, now, "ago", "from now"))
}

type nowView struct {
	Now     time.Time     `json:"now"`
	Slot    string        `json:"slot"`
	Active  []types.Topic `json:"active"`
	Current *types.Topic  `json:"current"`
}

func newNowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Show the current slot and topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				topics, err := b.ListTopics()
				if err != nil {
					return fmt.Errorf("list topics: %w", err)
				}

				now := a.clock.Now()
				view := nowView{Now: now, Active: nonNil(schedule.ActiveWindows(topics, now))}
				view.Slot = slotLine(view.Active, now)
				if current, ok := schedule.ClosestTopic(topics, now); ok {
					view.Current = &current
				}

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, view)
				}
				fmt.Fprintln(out, bold(view.Slot))
				if view.Current != nil {
					fmt.Fprintf(out, "Current topic: %s (%s - %s, %s)\n", view.Current.Title,
						view.Current.Starts, view.Current.Ends, enabledLabel(view.Current.Enabled))
				}
				return nil
			})
		},
	}
}
