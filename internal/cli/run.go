package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/notify"
	"github.com/mesh-intelligence/tlog/internal/sqlite"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		quiet bool
		once  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reminder loop in the foreground",
		Long: `Run the reminder loop. Every interval (notify_after notify_units) the
topic closest to the current time is resolved and, unless reminders are
suppressed, a reminder is printed.

Reminders are suppressed by --quiet, or by disable_saturday/disable_sunday
when the loop was started on that day. Settings are saved on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				s := notify.New(b, a.settings, a.clock, a.logger)
				defer s.Close()

				out := cmd.OutOrStdout()
				s.OnReminder(func(r notify.Reminder) {
					fmt.Fprintf(out, "[%s] %s\n", r.At.Format("15:04"), bold(r.Message()))
				})
				s.OnStatus(func(st notify.Status) {
					a.logger.Debugw("tick", "slot", slotLine(st.Active, st.Now), "state", st.State)
				})
				if quiet {
					s.ToggleManual(true)
				}

				defer func() {
					if err := a.settings.Save(); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
					}
				}()

				if once {
					now := a.clock.Now()
					s.OnStatus(func(st notify.Status) {
						fmt.Fprintln(out, slotLine(st.Active, st.Now))
					})
					s.Tick(now)
					return nil
				}

				ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
				defer stop()
				fmt.Fprintf(out, "Reminding every %s (%s); press Ctrl-C to stop\n", s.Interval(), s.State())
				return s.Run(ctx)
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "start with reminders suppressed")
	cmd.Flags().BoolVar(&once, "once", false, "evaluate once and exit")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
