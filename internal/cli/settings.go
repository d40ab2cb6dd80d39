package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change reminder settings",
		Long: `Show or change reminder settings.

Keys:
  notify_after      reminder interval amount (positive integer)
  notify_units      minutes or hours
  disable_saturday  no reminders on Saturdays (true/false)
  disable_sunday    no reminders on Sundays (true/false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := a.settings.Settings()
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, current)
			}
			values := current.Map()
			tbl := newTable("KEY", "VALUE")
			for _, key := range types.SettingKeys {
				tbl.AddRow(key, values[key])
			}
			fmt.Fprintln(out, tbl)
			return nil
		},
	}
	cmd.AddCommand(newSettingsGetCmd(a), newSettingsSetCmd(a))
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.settings.Get(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{args[0]: v})
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value> [<key> <value>]...",
		Short: "Change settings and save them",
		Long: `Change one or more settings and save them. Several pairs are
validated together and applied only if all are valid.

Example:
  tlog settings set notify_after 5
  tlog settings set notify_after 1 notify_units hours`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected key/value pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if len(args) == 2 {
				err = a.settings.Set(args[0], args[1])
			} else {
				values := make(map[string]any, len(args)/2)
				for i := 0; i < len(args); i += 2 {
					values[args[i]] = args[i+1]
				}
				err = a.settings.Update(values)
			}
			if err != nil {
				return err
			}

			if err := a.settings.Save(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), a.settings.Settings())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved")
			return nil
		},
	}
}
